package main

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/signadot/tony-include/debug"
	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/format"
	"github.com/signadot/tony-include/ir"
)

const diagSource = "tinc"

// put installs text as the content of the document at u, opening it in the
// workspace when it is new. A parse failure keeps the previous content. The
// client's language id, when it names a format, overrides the extension.
func (s *Server) put(u protocol.DocumentURI, lang protocol.LanguageIdentifier, text string) doc.ID {
	id := s.docID(u)
	var err error
	if d, ok := s.ws.Lookup(id); ok {
		err = d.Reparse([]byte(text))
	} else {
		var opts []doc.OpenOption
		if f, ferr := format.ParseFormat(string(lang)); ferr == nil {
			opts = append(opts, doc.OpenFormat(f))
		}
		_, err = s.ws.Open(id, []byte(text), opts...)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[id] = true
	if err != nil {
		s.parseErrs[id] = err
	} else {
		delete(s.parseErrs, id)
	}
	if debug.LSP() {
		debug.Logf("put %s: %v\n", id, err)
	}
	return id
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.put(params.TextDocument.URI, params.TextDocument.LanguageID, params.TextDocument.Text)
	s.publishDiagnostics(ctx)
	return nil
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// full sync: the last change holds the whole text
	s.put(params.TextDocument.URI, "", params.ContentChanges[len(params.ContentChanges)-1].Text)
	s.publishDiagnostics(ctx)
	return nil
}

// DidClose keeps the document in the workspace since other documents may
// include it.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	id := s.docID(params.TextDocument.URI)
	s.mu.Lock()
	delete(s.open, id)
	s.mu.Unlock()
	return s.notify(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
}

// publishDiagnostics sends diagnostics for every document the client holds
// open; a change in one document may break includes in another.
func (s *Server) publishDiagnostics(ctx context.Context) {
	s.mu.Lock()
	ids := make([]doc.ID, 0, len(s.open))
	for id := range s.open {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		if err := s.notify(ctx, s.docURI(id), s.diagnostics(id)); err != nil && debug.LSP() {
			debug.Logf("publishing diagnostics for %s: %v\n", id, err)
		}
	}
}

func (s *Server) notify(ctx context.Context, u protocol.DocumentURI, diags []protocol.Diagnostic) error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         u,
		Diagnostics: diags,
	})
}

// diagnostics reports the last parse failure of id and every include site
// of its current content which cannot be expanded.
func (s *Server) diagnostics(id doc.ID) []protocol.Diagnostic {
	res := []protocol.Diagnostic{}
	s.mu.Lock()
	perr := s.parseErrs[id]
	s.mu.Unlock()
	if perr != nil {
		res = append(res, protocol.Diagnostic{
			Severity: protocol.DiagnosticSeverityError,
			Source:   diagSource,
			Message:  perr.Error(),
		})
	}
	d, ok := s.ws.Lookup(id)
	if !ok {
		return res
	}
	snap := d.Snapshot()
	if snap == nil {
		return res
	}
	x := s.ws.Expander()
	var visit func(y *ir.Node)
	visit = func(y *ir.Node) {
		for _, c := range y.Values {
			if !doc.IsIncludeSite(c) {
				visit(c)
				continue
			}
			site, ok := snap.Element(c)
			if !ok {
				continue
			}
			_, err := x.Expand(site, func(doc.Node) bool { return true })
			if err == nil {
				continue
			}
			res = append(res, protocol.Diagnostic{
				Range:    pointRange(site),
				Severity: protocol.DiagnosticSeverityError,
				Source:   diagSource,
				Message:  err.Error(),
			})
		}
	}
	root, err := snap.Root().IR()
	if err != nil {
		return res
	}
	visit(root)
	return res
}

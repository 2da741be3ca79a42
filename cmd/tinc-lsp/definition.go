package main

import (
	"context"

	"go.lsp.dev/protocol"

	"github.com/signadot/tony-include/anchor"
	"github.com/signadot/tony-include/debug"
	"github.com/signadot/tony-include/doc"
)

// Definition jumps from an include site to the node it includes.
func (s *Server) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	site, ok := s.elementAt(params.TextDocument.URI, params.Position)
	if !ok {
		return nil, nil
	}
	y, err := site.IR()
	if err != nil || !doc.IsIncludeSite(y) {
		return nil, nil
	}
	var target doc.Node
	_, err = s.ws.Expander().Expand(site, func(n doc.Node) bool {
		target = n
		return false
	})
	if err != nil || target == nil {
		if debug.LSP() {
			debug.Logf("definition of %s: %v\n", site, err)
		}
		return nil, nil
	}
	e, err := anchor.Unwrap(target)
	if err != nil {
		return nil, nil
	}
	return []protocol.Location{{
		URI:   s.docURI(e.Document().ID()),
		Range: pointRange(e),
	}}, nil
}

// elementAt finds the element of the current content of u at an editor
// position.
func (s *Server) elementAt(u protocol.DocumentURI, pos protocol.Position) (doc.Element, bool) {
	d, ok := s.ws.Lookup(s.docID(u))
	if !ok {
		return doc.Element{}, false
	}
	snap := d.Snapshot()
	if snap == nil {
		return doc.Element{}, false
	}
	return snap.ElementAt(int(pos.Line)+1, int(pos.Character)+1)
}

// pointRange is the empty range at the start of e.
func pointRange(e doc.Element) protocol.Range {
	p, ok := e.Position()
	if !ok {
		return protocol.Range{}
	}
	at := protocol.Position{Line: uint32(p.Line - 1), Character: uint32(p.Col - 1)}
	return protocol.Range{Start: at, End: at}
}

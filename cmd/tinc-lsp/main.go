package main

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/signadot/tony-include/debug"
	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/include"
)

const lsName = "tinc-lsp"

var (
	version = "0.0.1"
)

const workspaceGlob = "**/*.{yaml,yml,json}"

func main() {
	ctx := context.Background()
	stream := jsonrpc2.NewStream(&stdioReadWriteCloser{
		read:  os.Stdin,
		write: os.Stdout,
	})
	server := newServer()
	handler := protocol.ServerHandler(server, nil)
	conn := jsonrpc2.NewConn(stream)
	server.conn = conn
	conn.Go(ctx, handler)
	<-conn.Done()
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (n int, err error) {
	return s.read.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (n int, err error) {
	return s.write.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	return nil
}

// Server answers editor requests over the documents of one workspace root.
// Include sites expand through the same locator as the tinc command.
type Server struct {
	conn jsonrpc2.Conn
	ws   *doc.Workspace

	mu        sync.Mutex
	root      string            // slash separated; empty until Initialize
	open      map[doc.ID]bool   // held open by the client
	parseErrs map[doc.ID]error // last failed parse per document
}

var _ protocol.Server = (*Server)(nil)

func newServer() *Server {
	ws := doc.NewWorkspace()
	ws.SetExpander(&include.Expander{Locate: include.Locator(ws)})
	return &Server{
		ws:        ws,
		open:      map[doc.ID]bool{},
		parseErrs: map[doc.ID]error{},
	}
}

// docID names the document at u relative to the workspace root when it lies
// below it, so include sites resolve the same way as from the command line.
func (s *Server) docID(u protocol.DocumentURI) doc.ID {
	p := filepath.ToSlash(uri.URI(u).Filename())
	s.mu.Lock()
	root := s.root
	s.mu.Unlock()
	if root != "" {
		if rel, ok := strings.CutPrefix(p, root+"/"); ok {
			return doc.ID(rel)
		}
	}
	return doc.ID(p)
}

func (s *Server) docURI(id doc.ID) protocol.DocumentURI {
	p := string(id)
	s.mu.Lock()
	root := s.root
	s.mu.Unlock()
	if !path.IsAbs(p) && root != "" {
		p = path.Join(root, p)
	}
	return protocol.DocumentURI(uri.File(filepath.FromSlash(p)))
}

func (s *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	if params.RootURI != "" {
		root := filepath.ToSlash(uri.URI(params.RootURI).Filename())
		s.mu.Lock()
		s.root = root
		s.mu.Unlock()
		if _, err := s.ws.OpenFS(os.DirFS(filepath.FromSlash(root)), workspaceGlob); err != nil && debug.LSP() {
			debug.Logf("loading %s: %v\n", root, err)
		}
	}
	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			Change:    protocol.TextDocumentSyncKindFull,
			OpenClose: true,
		},
		HoverProvider:      true,
		DefinitionProvider: true,
	}
	return &protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.ServerInfo{
			Name:    lsName,
			Version: version,
		},
	}, nil
}

func (s *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) Exit(ctx context.Context) error {
	return nil
}

func (s *Server) SetTrace(ctx context.Context, params *protocol.SetTraceParams) error {
	return nil
}

// Package lsp serves parse diagnostics, quick fixes and file outlines over
// the Language Server Protocol.
package lsp

import (
	"os"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/rsyn/syntax"
	"github.com/dhamidi/rsyn/workspace"
)

const lsName = "rsyn"

var log = commonlog.GetLogger("rsyn.lsp")

type Server struct {
	workspace *workspace.Workspace
	watcher   *workspace.FileWatcher
	handler   protocol.Handler
	server    *server.Server
	version   string

	// mu guards notify, which is captured from requests so the watcher
	// can publish outside of one.
	mu     sync.Mutex
	notify glsp.NotifyFunc
}

func NewServer(version string) *Server {
	ls := &Server{
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentCodeAction:     ls.textDocumentCodeAction,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		WorkspaceSymbol:            ls.workspaceSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := getRootDir()
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.workspace = workspace.New(rootDir)
	ls.setNotify(ctx.Notify)
	log.Infof("initialize: root %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindIncremental),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CodeActionProvider = &protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.setNotify(ctx.Notify)
	ls.watcher = workspace.NewFileWatcher(ls.workspace)
	ls.watcher.OnChange(func(path string) {
		log.Debugf("rescanned %s", path)
		snap, _ := ls.workspace.File(path)
		ls.publish(pathToURI(path), snap)
	})
	ls.watcher.Start()
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) setNotify(notify glsp.NotifyFunc) {
	if notify == nil {
		return
	}
	ls.mu.Lock()
	ls.notify = notify
	ls.mu.Unlock()
}

func (ls *Server) publish(uri protocol.DocumentUri, snap workspace.Snapshot) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify == nil {
		return
	}
	params := protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toDiagnostics(snap),
	}
	if snap.Version > 0 {
		version := protocol.UInteger(snap.Version)
		params.Version = &version
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, params)
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.setNotify(ctx.Notify)
	snap := ls.workspace.Open(path, params.TextDocument.Text, params.TextDocument.Version)
	ls.publish(params.TextDocument.URI, snap)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	var changes []workspace.Change
	for _, event := range params.ContentChanges {
		if change, ok := toChange(event); ok {
			changes = append(changes, change)
		}
	}
	snap, err := ls.workspace.Update(path, params.TextDocument.Version, changes...)
	if err != nil {
		log.Errorf("didChange: %v", err)
		return err
	}
	ls.setNotify(ctx.Notify)
	ls.publish(params.TextDocument.URI, snap)
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.Close(path)
	ls.setNotify(ctx.Notify)
	ls.publish(params.TextDocument.URI, workspace.Snapshot{})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	snap, ok := ls.workspace.File(path)
	if !ok || params.Text == nil || *params.Text == snap.Text {
		return nil
	}
	// The editor saved text that differs from what it sent us; trust the
	// saved version.
	snap, err = ls.workspace.Update(path, snap.Version, workspace.Change{Text: *params.Text})
	if err != nil {
		return err
	}
	ls.setNotify(ctx.Notify)
	ls.publish(params.TextDocument.URI, snap)
	return nil
}

func (ls *Server) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	snap, ok := ls.workspace.File(path)
	if !ok {
		return nil, nil
	}
	fixes := ls.workspace.Fixes(path, fromRange(snap.Lines, params.Range))
	if len(fixes) == 0 {
		return nil, nil
	}
	actions := make([]protocol.CodeAction, 0, len(fixes))
	for _, fix := range fixes {
		actions = append(actions, toCodeAction(params.TextDocument.URI, snap.Lines, fix))
	}
	return actions, nil
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	tree, ok := ls.workspace.Tree(path)
	if !ok {
		return nil, nil
	}
	return documentSymbols(outline(tree.Root, false), syntax.NewLineIndex(tree.Text())), nil
}

func (ls *Server) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	var result []protocol.SymbolInformation
	for _, path := range ls.workspace.Paths() {
		tree, ok := ls.workspace.Tree(path)
		if !ok {
			continue
		}
		lines := syntax.NewLineIndex(tree.Text())
		uri := pathToURI(path)
		flatten(outline(tree.Root, false), "", func(s symbol, container string) {
			if !strings.Contains(strings.ToLower(s.name), query) {
				return
			}
			info := protocol.SymbolInformation{
				Name:     s.name,
				Kind:     s.kind,
				Location: protocol.Location{URI: uri, Range: toRange(lines, s.nameRange)},
			}
			if container != "" {
				c := container
				info.ContainerName = &c
			}
			result = append(result, info)
		})
	}
	return result, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func getRootDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

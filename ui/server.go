// Package ui serves a browser view of the workspace: every Rust file with
// its diagnostics and syntax tree.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/rsyn/diagnostics"
	"github.com/dhamidi/rsyn/syntax"
	"github.com/dhamidi/rsyn/workspace"
)

//go:embed static all:templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("rsyn.ui")

const maxResults = 50

type Server struct {
	workspace  *workspace.Workspace
	staticFS   fs.FS
	templateFS fs.FS
	mux        *http.ServeMux
	funcMap    template.FuncMap
}

func NewServer(ws *workspace.Workspace) (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"severityClass": func(s diagnostics.Severity) string {
			return "sev-" + s.String()
		},
	}

	// Parse once up front so broken templates fail at startup.
	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		workspace:  ws,
		staticFS:   staticFS,
		templateFS: templateFS,
		mux:        http.NewServeMux(),
		funcMap:    funcMap,
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("POST /rescan", s.handleRescan)
	s.mux.HandleFunc("GET /f/{path...}", s.handleFile)
	s.mux.HandleFunc("GET /sidebar", s.handleSidebar)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// render parses the templates on every request so that edits below
// ui/templates show up without a restart.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Errorf("render %s: %v", name, err)
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	buf.WriteTo(w)
}

type FileEntry struct {
	Path     string
	Errors   int
	Warnings int
}

type SourceLine struct {
	Number      int
	Text        string
	Diagnostics []DiagnosticView
}

type DiagnosticView struct {
	Line     int
	Column   int
	Code     string
	Message  string
	Severity diagnostics.Severity
	Fixes    []string
}

type FileView struct {
	Path        string
	Lines       []SourceLine
	Diagnostics []DiagnosticView
	Tree        string
}

type PageData struct {
	Files        []FileEntry
	TotalMatches int
	HasMore      bool
	Query        string
	Active       *FileView
}

func (s *Server) rel(path string) string {
	if rel, err := filepath.Rel(s.workspace.RootDir(), path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func (s *Server) entries(query string) (files []FileEntry, total int) {
	query = strings.ToLower(query)
	for _, path := range s.workspace.Paths() {
		rel := s.rel(path)
		if query != "" && !strings.Contains(strings.ToLower(rel), query) {
			continue
		}
		total++
		if len(files) >= maxResults {
			continue
		}
		snap, _ := s.workspace.File(path)
		entry := FileEntry{Path: rel}
		for _, d := range snap.Diagnostics {
			if d.Severity == diagnostics.SeverityError {
				entry.Errors++
			} else {
				entry.Warnings++
			}
		}
		files = append(files, entry)
	}
	return files, total
}

func (s *Server) page(query string) PageData {
	files, total := s.entries(query)
	return PageData{
		Files:        files,
		TotalMatches: total,
		HasMore:      total > len(files),
		Query:        query,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", s.page(""))
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	s.render(w, "_sidebar.html", s.page(r.URL.Query().Get("q")))
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	if err := s.workspace.ScanAll(); err != nil {
		http.Error(w, "rescan failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	for _, path := range s.workspace.Paths() {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			s.workspace.RemoveFile(path)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.workspace.RootDir(), filepath.FromSlash(r.PathValue("path")))
	snap, ok := s.workspace.File(path)
	if !ok {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	tree, _ := s.workspace.Tree(path)

	if r.Header.Get("Accept") == "application/json" {
		w.Header().Set("Content-Type", "application/json")
		if err := syntax.NewJSONEncoder(w).Encode(tree); err != nil {
			log.Errorf("encode %s: %v", path, err)
		}
		return
	}

	data := s.page("")
	data.Active = fileView(s.rel(path), snap, tree)
	s.render(w, "file.html", data)
}

func fileView(rel string, snap workspace.Snapshot, tree *syntax.Tree) *FileView {
	view := &FileView{Path: rel, Tree: tree.Root.String()}
	for i, text := range strings.Split(snap.Text, "\n") {
		view.Lines = append(view.Lines, SourceLine{Number: i + 1, Text: text})
	}
	for _, d := range snap.Diagnostics {
		line, col := snap.Lines.LineCol(d.Range.Start)
		dv := DiagnosticView{
			Line:     line + 1,
			Column:   col + 1,
			Code:     d.Code,
			Message:  d.Message,
			Severity: d.Severity,
		}
		for _, fix := range d.Fixes {
			dv.Fixes = append(dv.Fixes, fix.Label)
		}
		view.Diagnostics = append(view.Diagnostics, dv)
		if line < len(view.Lines) {
			view.Lines[line].Diagnostics = append(view.Lines[line].Diagnostics, dv)
		}
	}
	return view
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

// overlayFS prefers files from primaryPath on disk over the embedded ones.
func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}

// Package workspace keeps parsed Rust files in memory, reparsing them
// incrementally as they are edited.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/rsyn/diagnostics"
	"github.com/dhamidi/rsyn/syntax"
)

var log = commonlog.GetLogger("rsyn.workspace")

const sourceExt = ".rs"

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*document
}

type document struct {
	tree        *syntax.Tree
	lines       *syntax.LineIndex
	diagnostics []diagnostics.Diagnostic
	version     int32
	// open documents are owned by an editor; disk changes are ignored
	// until they are closed.
	open bool
}

// Snapshot is a read-only view of a file at one version.
type Snapshot struct {
	Path        string
	Text        string
	Version     int32
	Errors      []syntax.Error
	Diagnostics []diagnostics.Diagnostic
	Lines       *syntax.LineIndex
}

// Change replaces the text between two positions. Positions are zero-based
// lines and UTF-16 columns. A nil Range replaces the whole document.
type Change struct {
	Range *Range
	Text  string
}

type Range struct {
	StartLine, StartCol int
	EndLine, EndCol     int
}

func New(rootDir string) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		files:   make(map[string]*document),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// ScanAll parses every Rust file below the root directory, skipping hidden
// directories and target/.
func (w *Workspace) ScanAll() error {
	return filepath.WalkDir(w.rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDir(path, d.Name(), w.rootDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == sourceExt {
			if err := w.ScanFile(path); err != nil {
				log.Warningf("scan %s: %v", path, err)
			}
		}
		return nil
	})
}

func skipDir(path, name, root string) bool {
	if path == root {
		return false
	}
	return strings.HasPrefix(name, ".") || name == "target"
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if doc := w.files[path]; doc != nil && doc.open {
		return nil
	}
	w.setLocked(path, string(content), 0, false)
	return nil
}

// Open records a document the editor has opened, replacing any version
// read from disk.
func (w *Workspace) Open(path, text string, version int32) Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.setLocked(path, text, version, true).snapshot(path)
}

// Close hands the document back to the file system. The file is read again
// from disk; if it is gone the document is dropped.
func (w *Workspace) Close(path string) {
	w.mu.Lock()
	if doc := w.files[path]; doc != nil {
		doc.open = false
	}
	w.mu.Unlock()
	if err := w.ScanFile(path); err != nil {
		w.RemoveFile(path)
	}
}

// Update applies changes to an open document in order and returns the
// resulting snapshot. Ranged changes are reparsed incrementally.
func (w *Workspace) Update(path string, version int32, changes ...Change) (Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc := w.files[path]
	if doc == nil {
		return Snapshot{}, fmt.Errorf("%s: document not open", path)
	}
	for _, change := range changes {
		if change.Range == nil {
			doc = w.setLocked(path, change.Text, version, doc.open)
			continue
		}
		r := change.Range
		start := doc.lines.Offset(r.StartLine, r.StartCol)
		end := doc.lines.Offset(r.EndLine, r.EndCol)
		if end < start {
			start, end = end, start
		}
		edit := syntax.Edit{Delete: syntax.TextRange{Start: start, End: end}, Insert: change.Text}
		how, err := doc.tree.Apply(edit)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%s: %w", path, err)
		}
		log.Debugf("%s: %s reparse for edit at %s", path, how, edit.Delete)
		doc.lines = syntax.NewLineIndex(doc.tree.Text())
	}
	doc.version = version
	doc.diagnostics = diagnostics.Compute(doc.tree)
	return doc.snapshot(path), nil
}

func (w *Workspace) setLocked(path, text string, version int32, open bool) *document {
	tree := syntax.Parse(text, syntax.WithFile(path))
	doc := &document{
		tree:        tree,
		lines:       syntax.NewLineIndex(text),
		diagnostics: diagnostics.Compute(tree),
		version:     version,
		open:        open,
	}
	w.files[path] = doc
	log.Debugf("parsed %s: %d errors", path, len(tree.Errors))
	return doc
}

func (d *document) snapshot(path string) Snapshot {
	return Snapshot{
		Path:        path,
		Text:        d.tree.Text(),
		Version:     d.version,
		Errors:      slices.Clone(d.tree.Errors),
		Diagnostics: d.diagnostics,
		Lines:       d.lines,
	}
}

// RemoveFile forgets path, open or not.
func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

// removeClosed drops path unless an editor has it open.
func (w *Workspace) removeClosed(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if doc := w.files[path]; doc != nil && doc.open {
		return false
	}
	delete(w.files, path)
	return true
}

func (w *Workspace) File(path string) (Snapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc := w.files[path]
	if doc == nil {
		return Snapshot{}, false
	}
	return doc.snapshot(path), true
}

// Paths lists the known files in lexical order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// Tree returns a copy of the file's syntax tree, parsed afresh from the
// current text so callers may keep it across edits.
func (w *Workspace) Tree(path string) (*syntax.Tree, bool) {
	snap, ok := w.File(path)
	if !ok {
		return nil, false
	}
	return syntax.Parse(snap.Text, syntax.WithFile(path)), true
}

// Fixes returns the fixes whose target overlaps r.
func (w *Workspace) Fixes(path string, r syntax.TextRange) []diagnostics.Fix {
	snap, ok := w.File(path)
	if !ok {
		return nil
	}
	var fixes []diagnostics.Fix
	for _, d := range snap.Diagnostics {
		for _, fix := range d.Fixes {
			if fix.Target.Start <= r.End && r.Start <= fix.Target.End {
				fixes = append(fixes, fix)
			}
		}
	}
	return fixes
}

package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhamidi/rsyn/diagnostics"
	"github.com/dhamidi/rsyn/syntax"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.rs"), "fn main() {}\n")
	writeFile(t, filepath.Join(root, "src", "lib.rs"), "pub mod a;\n")
	writeFile(t, filepath.Join(root, "target", "debug", "build.rs"), "fn x() {}\n")
	writeFile(t, filepath.Join(root, ".git", "hook.rs"), "fn x() {}\n")
	writeFile(t, filepath.Join(root, "README.md"), "# hi\n")

	w := New(root)
	if err := w.ScanAll(); err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	want := []string{
		filepath.Join(root, "src", "lib.rs"),
		filepath.Join(root, "src", "main.rs"),
	}
	got := w.Paths()
	if len(got) != len(want) {
		t.Fatalf("Paths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Paths()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestUpdateIncremental(t *testing.T) {
	src := "fn main() {\n    let x = foo;\n}\n"
	tests := []struct {
		name   string
		change Change
		want   string
	}{
		{
			name:   "rename identifier",
			change: Change{Range: &Range{1, 12, 1, 15}, Text: "bar"},
			want:   "fn main() {\n    let x = bar;\n}\n",
		},
		{
			name:   "insert statement",
			change: Change{Range: &Range{2, 0, 2, 0}, Text: "    call();\n"},
			want:   "fn main() {\n    let x = foo;\n    call();\n}\n",
		},
		{
			name:   "break the block",
			change: Change{Range: &Range{2, 0, 2, 1}, Text: ""},
			want:   "fn main() {\n    let x = foo;\n\n",
		},
		{
			name:   "whole document",
			change: Change{Text: "struct S;"},
			want:   "struct S;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(t.TempDir())
			w.Open("a.rs", src, 1)
			snap, err := w.Update("a.rs", 2, tt.change)
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if snap.Text != tt.want {
				t.Errorf("Text = %q, want %q", snap.Text, tt.want)
			}
			if snap.Version != 2 {
				t.Errorf("Version = %d, want 2", snap.Version)
			}
			fresh := syntax.Parse(tt.want)
			if len(snap.Errors) != len(fresh.Errors) {
				t.Errorf("errors = %v, want %v", snap.Errors, fresh.Errors)
			}
			tree, _ := w.Tree("a.rs")
			if tree.Root.String() != fresh.Root.String() {
				t.Errorf("tree differs from a fresh parse")
			}
		})
	}
}

func TestUpdateSequence(t *testing.T) {
	w := New(t.TempDir())
	w.Open("a.rs", "fn f() {}", 1)
	changes := []Change{
		{Range: &Range{0, 8, 0, 8}, Text: "return 1"},
		{Range: &Range{0, 6, 0, 6}, Text: " -> i32"},
	}
	snap, err := w.Update("a.rs", 2, changes...)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if want := "fn f() -> i32 {return 1}"; snap.Text != want {
		t.Fatalf("Text = %q, want %q", snap.Text, want)
	}
	if len(snap.Diagnostics) != 1 || snap.Diagnostics[0].Code != diagnostics.CodeRemoveTrailingReturn {
		t.Fatalf("Diagnostics = %+v", snap.Diagnostics)
	}

	fixes := w.Fixes("a.rs", syntax.TextRange{Start: 16, End: 16})
	if len(fixes) != 1 {
		t.Fatalf("Fixes = %+v", fixes)
	}
	if got := diagnostics.Apply(snap.Text, fixes[0].Edits); got != "fn f() -> i32 {1}" {
		t.Errorf("fixed = %q", got)
	}
	if fixes := w.Fixes("a.rs", syntax.TextRange{Start: 0, End: 2}); len(fixes) != 0 {
		t.Errorf("Fixes outside target = %+v", fixes)
	}
}

func TestUpdateUnknownDocument(t *testing.T) {
	w := New(t.TempDir())
	if _, err := w.Update("missing.rs", 1, Change{Text: ""}); err == nil {
		t.Error("Update of unknown document succeeded")
	}
}

func TestOpenShadowsDisk(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "lib.rs")
	writeFile(t, path, "fn disk() {}")

	w := New(root)
	w.Open(path, "fn editor() {}", 1)
	if err := w.ScanFile(path); err != nil {
		t.Fatalf("ScanFile: %v", err)
	}
	if snap, _ := w.File(path); snap.Text != "fn editor() {}" {
		t.Errorf("open document replaced by disk contents: %q", snap.Text)
	}

	w.Close(path)
	if snap, _ := w.File(path); snap.Text != "fn disk() {}" {
		t.Errorf("after Close Text = %q, want disk contents", snap.Text)
	}

	os.Remove(path)
	w.Open(path, "fn gone() {}", 1)
	w.Close(path)
	if _, ok := w.File(path); ok {
		t.Error("closed document without a file was kept")
	}
}

func TestFileWatcherScan(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.rs")
	b := filepath.Join(root, "b.rs")
	writeFile(t, a, "fn a() {}")
	writeFile(t, b, "fn b() {}")

	w := New(root)
	fw := NewFileWatcher(w)
	var changed []string
	fw.OnChange(func(path string) { changed = append(changed, path) })

	fw.scan()
	if len(changed) != 2 || len(w.Paths()) != 2 {
		t.Fatalf("first scan changed %v, paths %v", changed, w.Paths())
	}

	changed = nil
	fw.scan()
	if len(changed) != 0 {
		t.Errorf("unchanged files rescanned: %v", changed)
	}

	writeFile(t, a, "fn a2() {}")
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(a, later, later); err != nil {
		t.Fatal(err)
	}
	os.Remove(b)
	fw.scan()
	if len(changed) != 2 {
		t.Errorf("changed = %v, want a.rs and b.rs", changed)
	}
	if snap, _ := w.File(a); snap.Text != "fn a2() {}" {
		t.Errorf("a.rs Text = %q", snap.Text)
	}
	if _, ok := w.File(b); ok {
		t.Error("removed file still known")
	}
}

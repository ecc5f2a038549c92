package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dhamidi/rsyn/diagnostics"
	"github.com/dhamidi/rsyn/workspace"
)

func newCheckCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Report syntax errors and style diagnostics for Rust files",
		Long: `Parses every given .rs file, or every .rs file below the given
directories, and prints one line per diagnostic. With --fix, the quick fixes
of all diagnostics are applied to the files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			var errorCount int
			for _, arg := range args {
				ws, err := scanPath(arg)
				if err != nil {
					return err
				}
				for _, path := range ws.Paths() {
					snap, _ := ws.File(path)
					for _, d := range snap.Diagnostics {
						line, col := snap.Lines.LineCol(d.Range.Start)
						fmt.Printf("%s:%d:%d: %s: %s [%s]\n", path, line+1, col+1, d.Severity, d.Message, d.Code)
						if d.Severity == diagnostics.SeverityError {
							errorCount++
						}
					}
					if fix {
						if err := applyFixes(path, snap); err != nil {
							return err
						}
					}
				}
			}

			if errorCount > 0 {
				return fmt.Errorf("found %d syntax errors", errorCount)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "apply quick fixes in place")

	return cmd
}

func scanPath(path string) (*workspace.Workspace, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		ws := workspace.New(".")
		if err := ws.ScanFile(path); err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
		return ws, nil
	}
	ws := workspace.New(path)
	if err := ws.ScanAll(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return ws, nil
}

// applyFixes writes back snap with the first fix of every diagnostic
// applied. Edits that overlap an earlier one are left for a later run.
func applyFixes(path string, snap workspace.Snapshot) error {
	var edits []diagnostics.TextEdit
	for _, d := range snap.Diagnostics {
		if len(d.Fixes) > 0 {
			edits = append(edits, d.Fixes[0].Edits...)
		}
	}
	if len(edits) == 0 {
		return nil
	}
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Range.Start < edits[j].Range.Start
	})
	kept := edits[:0]
	end := -1
	for _, e := range edits {
		if e.Range.Start < end {
			continue
		}
		kept = append(kept, e)
		end = e.Range.End
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(diagnostics.Apply(snap.Text, kept)), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("%s: applied %d fixes\n", path, len(kept))
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/rsyn/parser"
	"github.com/dhamidi/rsyn/syntax"
)

func newReparseCmd() *cobra.Command {
	var offset, deleteLen int
	var insert string
	var check bool

	cmd := &cobra.Command{
		Use:   "reparse <file>",
		Short: "Apply an edit to a parsed file and show how much was reparsed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseFile(args[0], parser.SourceFile.String())
			if err != nil {
				return err
			}

			edit := syntax.Edit{
				Delete: syntax.TextRange{Start: offset, End: offset + deleteLen},
				Insert: insert,
			}
			how, err := tree.Apply(edit)
			if err != nil {
				return fmt.Errorf("apply edit: %w", err)
			}
			fmt.Printf("reparsed: %s\n", how)
			fmt.Print(tree.String())

			if check {
				fresh := syntax.Parse(tree.Text(), syntax.WithFile(args[0]))
				if fresh.String() != tree.String() {
					return fmt.Errorf("incremental tree differs from a full parse")
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "byte offset of the edit")
	cmd.Flags().IntVar(&deleteLen, "delete", 0, "number of bytes to delete at the offset")
	cmd.Flags().StringVar(&insert, "insert", "", "text to insert at the offset")
	cmd.Flags().BoolVar(&check, "check", false, "compare the result with a full parse")

	return cmd
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/rsyn/grammar"
	"github.com/dhamidi/rsyn/syntax"
)

func newRecognizeCmd() *cobra.Command {
	var grammarFile string
	var startProduction string
	var compare bool

	cmd := &cobra.Command{
		Use:   "recognize <file.rs>...",
		Short: "Check Rust files against the EBNF grammar with an Earley recognizer",
		Long: `Runs every file through the grammar recognizer. With --compare, the
file is also parsed by rsyn and any disagreement between the two is
reported.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, r, err := openGrammar(grammarFile)
			if err != nil {
				return err
			}
			g, err := ebnf.Parse(name, r)
			r.Close()
			if err != nil {
				return fmt.Errorf("parse grammar: %w", err)
			}
			if err := ebnf.Verify(g, startProduction); err != nil {
				return fmt.Errorf("verify grammar: %w", err)
			}
			rec, err := grammar.NewRecognizer(g)
			if err != nil {
				return err
			}

			var failed int
			for _, filename := range args {
				data, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read rust file: %w", err)
				}
				src := string(data)

				recErr := rec.Recognize(startProduction, grammar.Terminals(src))
				var syntaxErr *grammar.SyntaxError
				switch {
				case recErr == nil:
					fmt.Printf("%s: ok\n", filename)
				case errors.As(recErr, &syntaxErr) && syntaxErr.Offset >= 0:
					line, col := syntax.NewLineIndex(src).LineCol(syntaxErr.Offset)
					fmt.Printf("%s:%d:%d: %v\n", filename, line+1, col+1, recErr)
				default:
					fmt.Printf("%s: %v\n", filename, recErr)
				}

				if !compare {
					if recErr != nil {
						failed++
					}
					continue
				}
				tree := syntax.Parse(src, syntax.WithFile(filename))
				if parsed, recognized := len(tree.Errors) == 0, recErr == nil; parsed != recognized {
					failed++
					fmt.Printf("%s: parser valid=%v, grammar valid=%v\n", filename, parsed, recognized)
					for _, e := range tree.Errors {
						fmt.Printf("  parser: %s %s\n", e.Range, e.Error())
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarFile, "grammar", "", "EBNF grammar file (default: the built-in Rust grammar)")
	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production")
	cmd.Flags().BoolVar(&compare, "compare", false, "also parse with rsyn and report disagreements")

	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/rsyn/lexer"
)

func newTokensCmd() *cobra.Command {
	var skipTrivia bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "List the raw tokens of a Rust file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read rust file: %w", err)
			}

			for _, tok := range lexer.Tokenize(data, filename) {
				if skipTrivia && tok.Kind.IsTrivia() {
					continue
				}
				fmt.Printf("%d:%d\t%s\t%q", tok.Span.Start.Line, tok.Span.Start.Column, tok.Kind, tok.Literal)
				if tok.Error != "" {
					fmt.Printf("\terror: %s", tok.Error)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipTrivia, "skip-trivia", false, "omit whitespace and comments")

	return cmd
}

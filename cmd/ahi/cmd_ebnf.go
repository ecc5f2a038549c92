package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/rsyn/grammar"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebnf",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfShowCmd())

	return cmd
}

// openGrammar returns the named grammar file, or the built-in Rust
// grammar when filename is empty.
func openGrammar(filename string) (string, io.ReadCloser, error) {
	if filename == "" {
		return "rust.ebnf", io.NopCloser(strings.NewReader(grammar.Source())), nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return "", nil, fmt.Errorf("open file: %w", err)
	}
	return filename, f, nil
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check [file]",
		Short:         "Parse and verify an EBNF grammar file (default: the built-in Rust grammar)",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) == 1 {
				filename = args[0]
			}
			name, r, err := openGrammar(filename)
			if err != nil {
				return err
			}
			defer r.Close()

			g, err := ebnf.Parse(name, r)
			if err != nil {
				printErrors(err)
				return err
			}

			if startProduction != "" {
				if err := ebnf.Verify(g, startProduction); err != nil {
					printErrors(err)
					return err
				}
			}

			if _, err := grammar.NewRecognizer(g); err != nil {
				fmt.Println(err)
				return err
			}

			fmt.Printf("%s: %d productions ok\n", name, len(g))
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newEbnfShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the built-in Rust grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(grammar.Source())
			return nil
		},
	}
}

func printErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Println(v.Index(i).Interface())
		}
	} else {
		fmt.Println(err)
	}
}

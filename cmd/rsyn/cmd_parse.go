package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/rsyn/parser"
	"github.com/dhamidi/rsyn/syntax"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var entryName string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Rust file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseFile(args[0], entryName)
			if err != nil {
				return err
			}

			switch outputFormat {
			case "json":
				enc := syntax.NewJSONEncoder(os.Stdout)
				if err := enc.Encode(tree); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "text":
				fmt.Print(tree.String())
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().StringVar(&entryName, "entry", parser.SourceFile.String(), "grammar entry point to parse from")

	return cmd
}

func parseFile(filename, entryName string) (*syntax.Tree, error) {
	entry, err := parser.ParseEntryPoint(entryName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read rust file: %w", err)
	}
	return syntax.Parse(string(data), syntax.WithFile(filename), syntax.WithEntryPoint(entry)), nil
}

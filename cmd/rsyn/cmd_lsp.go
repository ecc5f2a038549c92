package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/rsyn/lsp"
	"github.com/dhamidi/rsyn/version"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version.Version().Core())
			return server.RunStdio()
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/rsyn/version"
)

func newVersionCmd() *cobra.Command {
	var showBuildInfo bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Println(version.Version().String())
				return nil
			}
			fmt.Println(version.Version().Core())
			return nil
		},
	}

	cmd.Flags().BoolVar(&showBuildInfo, "build-info", false, "show build information")

	return cmd
}

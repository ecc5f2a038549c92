package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "ahi",
		Short: "Development tools for rsyn",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				commonlog.Configure(2, nil)
			} else {
				commonlog.Configure(-1, nil)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debugging information")

	rootCmd.AddCommand(newEbnfCmd())
	rootCmd.AddCommand(newRecognizeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	var verbose, debug, quiet bool
	var logFile string

	rootCmd := &cobra.Command{
		Use:   "rsyn",
		Short: "An error-tolerant Rust parser",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity := 0
			switch {
			case quiet:
				verbosity = -2
			case debug:
				verbosity = 2
			case verbose:
				verbosity = 1
			}
			if logFile != "" {
				commonlog.Configure(verbosity, &logFile)
			} else {
				commonlog.Configure(verbosity, nil)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log more information")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debugging information")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "log errors only")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newReparseCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newStoreCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/rsyn/ui"
	"github.com/dhamidi/rsyn/workspace"
)

func newServeCmd() *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Browse the syntax trees and diagnostics of a directory in a web browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			ws := workspace.New(root)
			if err := ws.ScanAll(); err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}
			if watch {
				watcher := workspace.NewFileWatcher(ws)
				watcher.Start()
				defer watcher.Stop()
			}

			handler, err := ui.NewServer(ws)
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			fmt.Printf("serving %s on http://%s\n", root, addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", true, "rescan files when they change on disk")

	return cmd
}

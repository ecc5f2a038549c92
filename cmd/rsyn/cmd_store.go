package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dhamidi/rsyn/parser"
	"github.com/dhamidi/rsyn/syntaxdb"
)

func newStoreCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Keep parsed syntax trees in a SQLite database",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "rsyn.db", "path to the database file")

	open := func(create bool) (*syntaxdb.Store, error) {
		store, err := syntaxdb.Open(syntaxdb.Config{Path: dbPath, InitSchema: create})
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return store, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <file>...",
		Short: "Parse files and save their trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(true)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()
			for _, filename := range args {
				tree, err := parseFile(filename, parser.SourceFile.String())
				if err != nil {
					return err
				}
				id, err := store.SaveTree(ctx, tree)
				if err != nil {
					return fmt.Errorf("save %s: %w", filename, err)
				}
				fmt.Printf("%d\t%s\t%d errors\n", id, filename, len(tree.Errors))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(false)
			if err != nil {
				return err
			}
			defer store.Close()

			files, err := store.Files(context.Background())
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Printf("%d\t%s\t%s\t%d bytes\t%s\n", f.ID, f.Path, f.Entry, f.Length, f.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid file id: %w", err)
			}
			store, err := open(false)
			if err != nil {
				return err
			}
			defer store.Close()

			tree, err := store.LoadTree(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Print(tree.String())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "kinds <id>",
		Short: "Count the node and token kinds of a saved tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid file id: %w", err)
			}
			store, err := open(false)
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.KindCounts(context.Background(), id)
			if err != nil {
				return err
			}
			for _, kc := range counts {
				fmt.Printf("%6d  %s\n", kc.Count, kc.Kind)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid file id: %w", err)
			}
			store, err := open(false)
			if err != nil {
				return err
			}
			defer store.Close()
			return store.DeleteFile(context.Background(), id)
		},
	})

	return cmd
}

// Package syntaxdb stores syntax trees in SQLite so they can be queried
// with SQL after the fact.
package syntaxdb

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/dhamidi/rsyn/parser"
	"github.com/dhamidi/rsyn/syntax"
)

//go:embed schema.sql
var schemaSQL string

var log = commonlog.GetLogger("rsyn.syntaxdb")

var memoryDBs atomic.Int64

type Store struct {
	db *sql.DB
}

type Config struct {
	// Path is the database file. If empty, a private in-memory database
	// is used.
	Path string

	// InitSchema creates the tables if they do not exist yet. It is
	// implied for in-memory databases.
	InitSchema bool
}

func Open(cfg Config) (*Store, error) {
	var dsn string
	if cfg.Path == "" {
		dsn = fmt.Sprintf("file:rsyn-%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", memoryDBs.Add(1))
	} else {
		if _, err := os.Stat(cfg.Path); os.IsNotExist(err) && !cfg.InitSchema {
			return nil, fmt.Errorf("database file does not exist: %s", cfg.Path)
		}
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)",
			cfg.Path,
		)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.Path == "" {
		// An in-memory database lives only as long as a connection to it.
		db.SetMaxOpenConns(1)
	}
	if cfg.InitSchema || cfg.Path == "" {
		if _, err := db.Exec(schemaSQL); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type File struct {
	ID        int64
	Path      string
	Entry     parser.EntryPoint
	Length    int
	CreatedAt time.Time
}

// SaveTree stores tree with all of its nodes, tokens and errors in one
// transaction and returns the new file id.
func (s *Store) SaveTree(ctx context.Context, tree *syntax.Tree) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO files (path, entry, length, created_at) VALUES (?, ?, ?, ?)`,
		tree.File, tree.Entry.String(), len(tree.Text()), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	fileID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get file id: %w", err)
	}

	insertNode, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (file_id, parent_id, ord, kind, kind_name, start_offset, end_offset, text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare node insert: %w", err)
	}
	defer insertNode.Close()

	count := 0
	var insert func(n *syntax.Node, parent sql.NullInt64, ord int) error
	insert = func(n *syntax.Node, parent sql.NullInt64, ord int) error {
		var text sql.NullString
		if n.IsToken() {
			text = sql.NullString{String: n.Text, Valid: true}
		}
		result, err := insertNode.ExecContext(ctx,
			fileID, parent, ord, int(n.Kind), n.Kind.String(), n.Range.Start, n.Range.End, text,
		)
		if err != nil {
			return fmt.Errorf("insert node %s: %w", n.Kind, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get node id: %w", err)
		}
		count++
		for i, child := range n.Children {
			if err := insert(child, sql.NullInt64{Int64: id, Valid: true}, i); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(tree.Root, sql.NullInt64{}, 0); err != nil {
		return 0, err
	}

	for _, e := range tree.Errors {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO errors (file_id, message, start_offset, end_offset, bug) VALUES (?, ?, ?, ?, ?)`,
			fileID, e.Message, e.Range.Start, e.Range.End, e.Bug,
		)
		if err != nil {
			return 0, fmt.Errorf("insert error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	log.Infof("stored %s as file %d: %d elements, %d errors", tree.File, fileID, count, len(tree.Errors))
	return fileID, nil
}

// LoadTree rebuilds a stored tree.
func (s *Store) LoadTree(ctx context.Context, fileID int64) (*syntax.Tree, error) {
	file, err := s.file(ctx, fileID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, kind, start_offset, end_offset, COALESCE(text, '')
		FROM nodes WHERE file_id = ? ORDER BY id
	`, fileID)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	// Rows come back in insertion order, which is a preorder walk, so
	// parents precede their children and siblings are already ordered.
	nodes := make(map[int64]*syntax.Node)
	var root *syntax.Node
	for rows.Next() {
		var (
			id, kind   int64
			parentID   sql.NullInt64
			start, end int
			text       string
		)
		if err := rows.Scan(&id, &parentID, &kind, &start, &end, &text); err != nil {
			return nil, err
		}
		n := &syntax.Node{
			Kind:  parser.SyntaxKind(kind),
			Range: syntax.TextRange{Start: start, End: end},
			Text:  text,
		}
		nodes[id] = n
		if !parentID.Valid {
			root = n
			continue
		}
		parent, ok := nodes[parentID.Int64]
		if !ok {
			return nil, fmt.Errorf("node %d: parent %d not loaded", id, parentID.Int64)
		}
		parent.AddChild(n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("file %d has no root node", fileID)
	}

	errs, err := s.errors(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return syntax.NewTree(file.Path, file.Entry, root, errs), nil
}

func (s *Store) errors(ctx context.Context, fileID int64) ([]syntax.Error, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message, start_offset, end_offset, bug
		FROM errors WHERE file_id = ? ORDER BY id
	`, fileID)
	if err != nil {
		return nil, fmt.Errorf("query errors: %w", err)
	}
	defer rows.Close()

	var errs []syntax.Error
	for rows.Next() {
		var e syntax.Error
		if err := rows.Scan(&e.Message, &e.Range.Start, &e.Range.End, &e.Bug); err != nil {
			return nil, err
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

func (s *Store) file(ctx context.Context, fileID int64) (File, error) {
	var (
		f              File
		entry, created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, path, entry, length, created_at FROM files WHERE id = ?`, fileID,
	).Scan(&f.ID, &f.Path, &entry, &f.Length, &created)
	if err != nil {
		return File{}, fmt.Errorf("query file %d: %w", fileID, err)
	}
	if f.Entry, err = parser.ParseEntryPoint(entry); err != nil {
		return File{}, fmt.Errorf("file %d: %w", fileID, err)
	}
	if f.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return File{}, fmt.Errorf("file %d: %w", fileID, err)
	}
	return f, nil
}

// Files lists the stored files, oldest first.
func (s *Store) Files(ctx context.Context) ([]File, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM files ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	files := make([]File, 0, len(ids))
	for _, id := range ids {
		f, err := s.file(ctx, id)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// DeleteFile removes a file and everything stored for it.
func (s *Store) DeleteFile(ctx context.Context, fileID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, fileID); err != nil {
		return fmt.Errorf("delete file %d: %w", fileID, err)
	}
	return nil
}

type KindCount struct {
	Kind  string
	Count int
}

// KindCounts reports how often each node and token kind occurs in a file,
// most frequent first.
func (s *Store) KindCounts(ctx context.Context, fileID int64) ([]KindCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind_name, COUNT(*) AS n FROM nodes
		WHERE file_id = ?
		GROUP BY kind_name
		ORDER BY n DESC, kind_name
	`, fileID)
	if err != nil {
		return nil, fmt.Errorf("query kind counts: %w", err)
	}
	defer rows.Close()

	var counts []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, kc)
	}
	return counts, rows.Err()
}

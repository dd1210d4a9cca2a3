// Package export writes workspace snapshots to formats read by external
// tools: a SQLite database of files, declarations, references, includes and
// diagnostics, and a zstd-compressed JSON dump.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
	"github.com/doomfront/doomfront/workspace"
)

// SchemaVersion is stored in the meta table.
const SchemaVersion = 1

const schema = `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		dialect TEXT NOT NULL,
		version INTEGER NOT NULL,
		hash TEXT NOT NULL,
		seq INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS declarations (
		file TEXT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		key TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		container TEXT,
		parent TEXT,
		replaces TEXT,
		start_offset INTEGER NOT NULL,
		end_offset INTEGER NOT NULL,
		line INTEGER NOT NULL,
		col INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_declarations_name ON declarations(name COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_declarations_file ON declarations(file);
	CREATE TABLE IF NOT EXISTS refs (
		file TEXT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		from_key TEXT,
		start_offset INTEGER NOT NULL,
		end_offset INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_refs_name ON refs(name COLLATE NOCASE);
	CREATE TABLE IF NOT EXISTS includes (
		file TEXT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		target TEXT,
		start_offset INTEGER NOT NULL,
		end_offset INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS diagnostics (
		file TEXT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		code TEXT NOT NULL,
		severity TEXT NOT NULL,
		stage TEXT NOT NULL,
		message TEXT NOT NULL,
		start_offset INTEGER NOT NULL,
		end_offset INTEGER NOT NULL
	);
`

// DB is an export database.
type DB struct {
	conn *sql.DB
	path string
}

// Stats counts the rows written by one export.
type Stats struct {
	Files        int `json:"files"`
	Declarations int `json:"declarations"`
	References   int `json:"references"`
	Includes     int `json:"includes"`
	Diagnostics  int `json:"diagnostics"`
}

// Open opens or creates the database at path and ensures its schema.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open export database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize export schema: %w", err)
	}
	return &DB{conn: conn, path: path}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Write replaces the database contents with the current snapshot of idx.
// Diagnostics include the workspace resolution warnings.
func (db *DB) Write(ctx context.Context, idx *workspace.Index) (Stats, error) {
	snap := idx.Snapshot()
	var stats Stats

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"diagnostics", "includes", "refs", "declarations", "files", "meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return stats, fmt.Errorf("clear %s: %w", table, err)
		}
	}
	meta := map[string]string{
		"schema_version": strconv.Itoa(SchemaVersion),
		"session":        idx.ID().String(),
		"exported_at":    time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return stats, fmt.Errorf("write meta: %w", err)
		}
	}

	targets := map[token.Span]token.FileID{}
	for _, e := range snap.IncludeGraph().Edges {
		targets[e.Span] = e.To
	}

	for _, file := range snap.Files() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		e, _ := snap.Entry(file)
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO files (id, dialect, version, hash, seq) VALUES (?, ?, ?, ?, ?)",
			string(e.File), e.Dialect.String(), e.Version, strconv.FormatUint(e.Hash, 16), int64(e.Seq),
		); err != nil {
			return stats, fmt.Errorf("write file %s: %w", file, err)
		}
		stats.Files++

		lines := token.NewLineIndex(e.Text)
		for d := range e.Table.All() {
			pos := lines.Position(d.Span.Start)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO declarations (file, key, name, kind, container, parent, replaces, start_offset, end_offset, line, col)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				string(file), d.Key, d.Name, d.Kind.String(),
				nullString(d.Container), nullString(d.Parent), nullString(d.Replaces),
				d.Span.Start, d.Span.End, pos.LineNumber(), pos.ColumnNumber(),
			); err != nil {
				return stats, fmt.Errorf("write declaration %s: %w", d.Key, err)
			}
			stats.Declarations++
		}

		for _, r := range e.Table.References() {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO refs (file, role, name, kind, from_key, start_offset, end_offset)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				string(file), r.Role.String(), r.Name, r.Kind.String(), nullString(r.From), r.Span.Start, r.Span.End,
			); err != nil {
				return stats, fmt.Errorf("write reference %s: %w", r.Name, err)
			}
			stats.References++
		}

		for _, inc := range e.Includes() {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO includes (file, path, target, start_offset, end_offset)
				VALUES (?, ?, ?, ?, ?)`,
				string(file), inc.Path, nullString(string(targets[inc.Span])), inc.Span.Start, inc.Span.End,
			); err != nil {
				return stats, fmt.Errorf("write include %s: %w", inc.Path, err)
			}
			stats.Includes++
		}

		diags, err := snap.Diagnostics(file)
		if err != nil {
			return stats, err
		}
		for _, d := range diags {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO diagnostics (file, code, severity, stage, message, start_offset, end_offset)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				string(file), string(d.Code), d.Severity.String(), d.Stage.String(), d.Message, d.Span.Start, d.Span.End,
			); err != nil {
				return stats, fmt.Errorf("write diagnostic: %w", err)
			}
			stats.Diagnostics++
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit export: %w", err)
	}
	log.Info().
		Str("path", db.path).
		Int("files", stats.Files).
		Int("declarations", stats.Declarations).
		Msg("exported workspace")
	return stats, nil
}

// Row is a declaration read back from the database.
type Row struct {
	File   token.FileID
	Name   string
	Kind   symbols.Kind
	Parent string
	Line   int
	Column int
}

// Lookup returns the declarations named name, ignoring case, ordered by
// file and position.
func (db *DB) Lookup(ctx context.Context, name string) ([]Row, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT file, name, kind, COALESCE(parent, ''), line, col
		FROM declarations
		WHERE name = ? COLLATE NOCASE
		ORDER BY file, start_offset`, name)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", name, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r    Row
			file string
			kind string
		)
		if err := rows.Scan(&file, &r.Name, &kind, &r.Parent, &r.Line, &r.Column); err != nil {
			return nil, err
		}
		r.File = token.FileID(file)
		if r.Kind, err = symbols.ParseKind(kind); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of rows in one of the export tables.
func (db *DB) Count(ctx context.Context, table string) (int, error) {
	switch table {
	case "files", "declarations", "refs", "includes", "diagnostics":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

package hashset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	aetherrors "github.com/iakinsey/aetherscope/internal/errors"

	_ "modernc.org/sqlite"
)

// SQLiteBackend is the single-node, embedded hash-set backend. Each batch
// runs in a single transaction: the pre-select set is the truth reported to
// the caller, and inserting an already-present row is a no-op.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (creating if necessary) a sqlite database at path
// and ensures the entity table exists.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, aetherrors.NewIOError("open sqlite", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS entity (name TEXT PRIMARY KEY)`); err != nil {
		db.Close()
		return nil, aetherrors.NewIOError("create entity table", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Close releases the underlying database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) ContainsEntities(ctx context.Context, entities []string) ([]EntityResult, error) {
	if len(entities) == 0 {
		return nil, nil
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, aetherrors.NewIOError("begin tx", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(entities)), ",")
	args := make([]interface{}, len(entities))
	for i, e := range entities {
		args[i] = e
	}

	existing := make(map[string]struct{}, len(entities))
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("SELECT name FROM entity WHERE name IN (%s)", placeholders), args...)
	if err != nil {
		return nil, aetherrors.NewIOError("select intersection", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, aetherrors.NewIOError("scan", err)
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, aetherrors.NewIOError("rows", err)
	}
	rows.Close()

	insertStmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO entity(name) VALUES (?)")
	if err != nil {
		return nil, aetherrors.NewIOError("prepare insert", err)
	}
	for _, e := range entities {
		if _, err := insertStmt.ExecContext(ctx, e); err != nil {
			insertStmt.Close()
			return nil, aetherrors.NewIOError("insert", err)
		}
	}
	insertStmt.Close()

	if err := tx.Commit(); err != nil {
		return nil, aetherrors.NewIOError("commit", err)
	}

	results := make([]EntityResult, len(entities))
	for i, e := range entities {
		_, existed := existing[e]
		results[i] = EntityResult{Entity: e, ExistedBefore: existed}
	}
	return results, nil
}

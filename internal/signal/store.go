package signal

import (
	"github.com/gocql/gocql"

	aetherrors "github.com/iakinsey/aetherscope/internal/errors"
)

// EnsureSchema issues every signal table's DDL against session. Safe to run
// on every startup; each statement is IF NOT EXISTS.
func EnsureSchema(session *gocql.Session) error {
	for _, stmt := range AllDDL() {
		if err := session.Query(stmt).Exec(); err != nil {
			return aetherrors.NewIOError("signal schema ddl", err)
		}
	}
	return nil
}

// UpsertMany groups rows into batches of at most batchSize and commits each
// batch as a single logical operation via a gocql.LoggedBatch, per spec.md
// §4.11's upsert_many contract. A zero or negative batchSize is treated as
// "one batch".
func UpsertMany(session *gocql.Session, rows []Signal, batchSize int) error {
	if len(rows) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = len(rows)
	}

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := execBatch(session, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func execBatch(session *gocql.Session, rows []Signal) error {
	batch := session.NewBatch(gocql.LoggedBatch)
	for _, row := range rows {
		batch.Query(row.UpsertCQL(), row.Bind()...)
	}
	if err := session.ExecuteBatch(batch); err != nil {
		return aetherrors.NewIOError("signal upsert batch", err)
	}
	return nil
}

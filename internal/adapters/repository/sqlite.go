package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver

	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/normalize"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS match_records (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		source      TEXT    NOT NULL,
		team_number INTEGER NOT NULL,
		payload     TEXT    NOT NULL,
		created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_match_records_source_team ON match_records (source, team_number)`,
}

// SQLiteStore keeps records in a single SQLite table. The payload column
// holds the canonical field map as JSON.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewSQLiteStore opens (and if needed creates) the database at path.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	o := apply(opts)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLiteStore{db: db, log: o.log}, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := make([]model.Record, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var fields map[string]string
		if err := json.Unmarshal([]byte(payload), &fields); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		out = append(out, normalize.Record(fields))
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListMatches(ctx context.Context, source types.Source) ([]model.Record, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	defer observe("sqlite", "list", time.Now())
	return s.query(ctx, `SELECT payload FROM match_records WHERE source = ? ORDER BY id`, string(source))
}

func (s *SQLiteStore) ListMatchesForTeam(ctx context.Context, team int, source types.Source) ([]model.Record, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	defer observe("sqlite", "list_team", time.Now())
	return s.query(ctx, `SELECT payload FROM match_records WHERE source = ? AND team_number = ? ORDER BY id`, string(source), team)
}

func insertAll(ctx context.Context, tx *sql.Tx, source types.Source, recs []model.Record) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO match_records (source, team_number, payload) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range recs {
		payload, err := json.Marshal(normalize.Fields(r))
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, string(source), r.TeamNumber, string(payload)); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Append(ctx context.Context, source types.Source, recs ...model.Record) error {
	if err := checkSource(source); err != nil {
		return err
	}
	defer observe("sqlite", "append", time.Now())
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return insertAll(ctx, tx, source, recs)
	})
}

func (s *SQLiteStore) Replace(ctx context.Context, source types.Source, recs []model.Record) error {
	if err := checkSource(source); err != nil {
		return err
	}
	defer observe("sqlite", "replace", time.Now())
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM match_records WHERE source = ?`, string(source)); err != nil {
			return fmt.Errorf("clear %s: %w", source, err)
		}
		return insertAll(ctx, tx, source, recs)
	})
	if err == nil {
		s.log.Info(ctx, "records replaced", logger.String("source", string(source)), logger.Int("count", len(recs)))
	}
	return err
}

func (s *SQLiteStore) Count(ctx context.Context, source types.Source) (int, error) {
	if err := checkSource(source); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM match_records WHERE source = ?`, string(source)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

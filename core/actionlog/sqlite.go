package actionlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/adms/core/model"
)

// tsLayout is fixed width so timestamps compare lexically in SQL. It covers
// years 0000 to 9999, including the year 0 of time-of-day forecasts.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

func formatTS(t time.Time) string { return t.UTC().Format(tsLayout) }

// SQLiteStore persists records to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS action_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL,
        seq INTEGER NOT NULL,
        ts TEXT NOT NULL,
        demand_mw REAL NOT NULL,
        generation_mw REAL NOT NULL,
        regime TEXT NOT NULL,
        action TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS action_log_ts ON action_log (ts, seq);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes the record to the database.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO action_log (run_id, seq, ts, demand_mw, generation_mw, regime, action) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Seq, formatTS(rec.Timestamp), rec.DemandMW, rec.GenerationMW, rec.Regime.String(), rec.Action)
	return err
}

// Query returns records matching q. Time and run filters run in SQL; the
// kind filter is applied to the decoded rows.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Record, error) {
	var args []any
	query := `SELECT run_id, seq, ts, demand_mw, generation_mw, regime, action FROM action_log WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, formatTS(q.Start))
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, formatTS(q.End))
	}
	if q.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, q.RunID)
	}
	query += ` ORDER BY ts, seq`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Record
	for rows.Next() {
		var (
			r      Record
			ts     string
			regime string
		)
		if err := rows.Scan(&r.RunID, &r.Seq, &ts, &r.DemandMW, &r.GenerationMW, &regime, &r.Action); err != nil {
			return nil, err
		}
		if r.Timestamp, err = time.Parse(tsLayout, ts); err != nil {
			return nil, fmt.Errorf("decode row %s/%d: %w", r.RunID, r.Seq, err)
		}
		if r.Regime, err = model.ParseRegime(regime); err != nil {
			return nil, fmt.Errorf("decode row %s/%d: %w", r.RunID, r.Seq, err)
		}
		if q.Kind.match(r.ActionRecord()) {
			res = append(res, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

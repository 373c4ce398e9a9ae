// Package store keeps the history of this process's sessions in an
// in-memory SQLite database. Nothing outlives the process.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/gyro/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session data.
type Store struct {
	db *sql.DB
}

// OpenMemory opens a private in-memory database and applies migrations.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database, discarding its contents.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL DEFAULT '',
			preset TEXT NOT NULL,
			mode TEXT NOT NULL,
			alphabet TEXT NOT NULL,
			candidates INTEGER NOT NULL,
			dwell_ms INTEGER NOT NULL,
			timeout_ms INTEGER NOT NULL,
			policy TEXT NOT NULL,
			level_reached INTEGER NOT NULL DEFAULT 0,
			correct INTEGER NOT NULL DEFAULT 0,
			incorrect INTEGER NOT NULL DEFAULT 0,
			missed INTEGER NOT NULL DEFAULT 0,
			finished INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS trials (
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			level INTEGER NOT NULL,
			target TEXT NOT NULL,
			selected TEXT NOT NULL,
			outcome TEXT NOT NULL,
			reaction_ms INTEGER NOT NULL,
			timeout_ms INTEGER NOT NULL,
			at TEXT NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS blocks (
			session_id TEXT NOT NULL,
			block INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			missed INTEGER NOT NULL,
			PRIMARY KEY (session_id, block)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trials_target ON trials(target);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// StartSession inserts a new open session. An empty rec.ID gets a fresh UUID.
func (s *Store) StartSession(ctx context.Context, rec model.SessionRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, preset, mode, alphabet, candidates, dwell_ms, timeout_ms, policy)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.Preset,
		rec.Mode,
		rec.Alphabet,
		rec.Candidates,
		rec.DwellMs,
		rec.TimeoutMs,
		rec.Policy,
	)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// InsertTrial appends a concluded trial to its session.
func (s *Store) InsertTrial(ctx context.Context, tr model.TrialRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trials (session_id, seq, level, target, selected, outcome, reaction_ms, timeout_ms, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tr.SessionID,
		tr.Seq,
		tr.Level,
		tr.Target,
		tr.Selected,
		tr.Outcome,
		tr.ReactionMs,
		tr.TimeoutMs,
		tr.At.Format(time.RFC3339Nano),
	)
	return err
}

// FinishSession closes a session with its totals and finalized blocks.
func (s *Store) FinishSession(ctx context.Context, rec model.SessionRecord, blocks []model.BlockRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ?, level_reached = ?, correct = ?, incorrect = ?, missed = ?, finished = ?
		 WHERE id = ?`,
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.LevelReached,
		rec.Correct,
		rec.Incorrect,
		rec.Missed,
		rec.Finished,
		rec.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("unknown session %q", rec.ID)
	}

	if len(blocks) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO blocks (session_id, block, correct, incorrect, missed) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, b := range blocks {
			if _, err := stmt.ExecContext(ctx, rec.ID, b.Block, b.Correct, b.Incorrect, b.Missed); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// ListSessions returns closed sessions in start order.
func (s *Store) ListSessions(ctx context.Context) ([]model.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, preset, mode, alphabet, candidates, dwell_ms, timeout_ms, policy,
			level_reached, correct, incorrect, missed, finished
		FROM sessions
		WHERE ended_at != ''
		ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var startedAt, endedAt string
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &rec.Preset, &rec.Mode, &rec.Alphabet, &rec.Candidates,
			&rec.DwellMs, &rec.TimeoutMs, &rec.Policy, &rec.LevelReached, &rec.Correct, &rec.Incorrect, &rec.Missed, &rec.Finished); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListBlockAggregates sums ledger blocks by index across sessions.
func (s *Store) ListBlockAggregates(ctx context.Context, sessionIDs []string) ([]model.BlockAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(sessionIDs)
	query := fmt.Sprintf(`SELECT block, COUNT(*) AS sessions, SUM(correct), SUM(incorrect), SUM(missed)
		FROM blocks
		WHERE session_id IN (%s)
		GROUP BY block
		ORDER BY block ASC`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.BlockAggregate
	for rows.Next() {
		var agg model.BlockAggregate
		if err := rows.Scan(&agg.Block, &agg.Sessions, &agg.Correct, &agg.Incorrect, &agg.Missed); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListSymbolAggregates sums trial outcomes by target symbol. Reaction times
// only count resolved trials.
func (s *Store) ListSymbolAggregates(ctx context.Context, sessionIDs []string) ([]model.SymbolAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(sessionIDs)
	query := fmt.Sprintf(`SELECT target,
			SUM(outcome = 'correct'), SUM(outcome = 'incorrect'), SUM(outcome = 'missed'),
			COALESCE(SUM(CASE WHEN outcome != 'missed' THEN reaction_ms END), 0),
			SUM(outcome != 'missed')
		FROM trials
		WHERE session_id IN (%s)
		GROUP BY target`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SymbolAggregate
	for rows.Next() {
		var agg model.SymbolAggregate
		if err := rows.Scan(&agg.Symbol, &agg.Correct, &agg.Incorrect, &agg.Missed, &agg.ReactionSumMs, &agg.ReactionCount); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListReactionTimes returns reaction times of correct trials in the order
// they happened.
func (s *Store) ListReactionTimes(ctx context.Context, sessionIDs []string) ([]int64, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(sessionIDs)
	query := fmt.Sprintf(`SELECT reaction_ms FROM trials
		WHERE session_id IN (%s) AND outcome = 'correct'
		ORDER BY rowid ASC`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []int64
	for rows.Next() {
		var ms int64
		if err := rows.Scan(&ms); err != nil {
			return nil, err
		}
		result = append(result, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func inClause(ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

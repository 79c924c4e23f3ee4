package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/mcoot/slotmachine-go/internal/db"
	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface. Reads
// go straight to the pool; writes are serialised through a db.Worker.
type Storage struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

// New wraps an open, migrated database. The storage owns conn and closes it.
func New(conn *sql.DB) *Storage {
	return &Storage{
		db:     conn,
		writer: dbpkg.NewWorker(conn),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close drains pending writes and closes the database
func (s *Storage) Close() error {
	s.writer.Close()
	return s.db.Close()
}

// Player operations

const playerColumns = "student_number, first_name, last_name, registration_date_ns"

func (s *Storage) FindPlayer(ctx context.Context, studentNumber string) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM players WHERE student_number = ?;", studentNumber)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("FindPlayer: %w", err)
	}
	return p, nil
}

func (s *Storage) PlayerExists(ctx context.Context, studentNumber string) (bool, error) {
	return playerExists(ctx, s.db, studentNumber)
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+playerColumns+" FROM players ORDER BY registration_date_ns DESC, student_number DESC;")
	if err != nil {
		return nil, fmt.Errorf("ListPlayers: %w", err)
	}
	defer rows.Close()

	players := []*model.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("ListPlayers scan: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM players;").Scan(&n); err != nil {
		return 0, fmt.Errorf("CountPlayers: %w", err)
	}
	return n, nil
}

// Game result operations

const gameColumns = "id, student_number, result, retry_count, date_played_ns"

func (s *Storage) QueryGameResults(ctx context.Context, filter storage.GameFilter) ([]*model.GameResult, error) {
	where, args := gameWhere(filter)
	query := "SELECT " + gameColumns + " FROM game_results" + where +
		orderBy("date_played_ns", filter.Order) + limitClause(filter.Limit) + ";"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("QueryGameResults: %w", err)
	}
	defer rows.Close()

	games := []*model.GameResult{}
	for rows.Next() {
		var (
			g        model.GameResult
			playedNs int64
		)
		if err := rows.Scan(&g.ID, &g.StudentNumber, &g.Result, &g.RetryCount, &playedNs); err != nil {
			return nil, fmt.Errorf("QueryGameResults scan: %w", err)
		}
		g.DatePlayed = fromNanos(playedNs)
		games = append(games, &g)
	}
	return games, rows.Err()
}

func (s *Storage) CountGameResults(ctx context.Context, filter storage.GameFilter) (int, error) {
	where, args := gameWhere(filter)
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM game_results"+where+";", args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountGameResults: %w", err)
	}
	return n, nil
}

func gameWhere(f storage.GameFilter) (string, []any) {
	var w whereBuilder
	if f.StudentNumber != "" {
		w.add("student_number = ?", f.StudentNumber)
	}
	if f.Result != "" {
		w.add("result = ?", f.Result)
	}
	w.timeRange("date_played_ns", f.From, f.To)
	return w.String(), w.args
}

// Audit operations

func (s *Storage) QueryAuditLogs(ctx context.Context, filter storage.AuditFilter) ([]*model.AuditLog, error) {
	var w whereBuilder
	if filter.StudentNumber != "" {
		w.add("student_number = ?", filter.StudentNumber)
	}
	w.timeRange("timestamp_ns", filter.From, filter.To)

	query := "SELECT id, student_number, action, status, timestamp_ns, details FROM audit_logs" +
		w.String() + orderBy("timestamp_ns", filter.Order) + limitClause(filter.Limit) + ";"

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("QueryAuditLogs: %w", err)
	}
	defer rows.Close()

	logs := []*model.AuditLog{}
	for rows.Next() {
		var (
			a      model.AuditLog
			status string
			tsNs   int64
		)
		if err := rows.Scan(&a.ID, &a.StudentNumber, &a.Action, &status, &tsNs, &a.Details); err != nil {
			return nil, fmt.Errorf("QueryAuditLogs scan: %w", err)
		}
		a.Status = model.AuditStatus(status)
		a.Timestamp = fromNanos(tsNs)
		logs = append(logs, &a)
	}
	return logs, rows.Err()
}

// Batch operations

func (s *Storage) Apply(ctx context.Context, batch storage.Batch) error {
	if err := storage.CheckBatch(batch); err != nil {
		return err
	}
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// The worker is the only writer, so check-then-insert cannot race
		if p := batch.Player; p != nil {
			exists, err := playerExists(ctx, tx, p.StudentNumber)
			if err != nil {
				return err
			}
			if exists {
				return model.ErrDuplicateStudent
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO players("+playerColumns+") VALUES (?, ?, ?, ?);",
				p.StudentNumber, p.FirstName, p.LastName, p.RegistrationDate.UnixNano(),
			); err != nil {
				return fmt.Errorf("Apply insert player: %w", err)
			}
		}

		if g := batch.GameResult; g != nil {
			exists, err := playerExists(ctx, tx, g.StudentNumber)
			if err != nil {
				return err
			}
			if !exists {
				return model.ErrPlayerNotFound
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO game_results("+gameColumns+") VALUES (?, ?, ?, ?, ?);",
				g.ID, g.StudentNumber, g.Result, g.RetryCount, g.DatePlayed.UnixNano(),
			); err != nil {
				return fmt.Errorf("Apply insert game result: %w", err)
			}
		}

		if a := batch.AuditLog; a != nil {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO audit_logs(id, student_number, action, status, timestamp_ns, details)
VALUES (?, ?, ?, ?, ?, ?);
`,
				a.ID, a.StudentNumber, a.Action, string(a.Status), a.Timestamp.UnixNano(), a.Details,
			); err != nil {
				return fmt.Errorf("Apply insert audit log: %w", err)
			}
		}

		return nil
	})
}

// Helpers

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func playerExists(ctx context.Context, q queryRower, studentNumber string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM players WHERE student_number = ?;", studentNumber).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("player exists: %w", err)
	}
	return true, nil
}

func scanPlayer(row scanner) (*model.Player, error) {
	var (
		p     model.Player
		regNs int64
	)
	if err := row.Scan(&p.StudentNumber, &p.FirstName, &p.LastName, &regNs); err != nil {
		return nil, err
	}
	p.RegistrationDate = fromNanos(regNs)
	return &p, nil
}

func fromNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, arg any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, arg)
}

func (w *whereBuilder) timeRange(column string, from, to time.Time) {
	lo, hi, ok := storage.NanoRange(from, to)
	if !ok {
		w.clauses = append(w.clauses, "0 = 1")
		return
	}
	if lo != nil {
		w.add(column+" >= ?", *lo)
	}
	if hi != nil {
		w.add(column+" <= ?", *hi)
	}
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func orderBy(column string, order storage.Order) string {
	if order == storage.OldestFirst {
		return " ORDER BY " + column + " ASC, id ASC"
	}
	return " ORDER BY " + column + " DESC, id DESC"
}

func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}

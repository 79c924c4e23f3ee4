package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
)

// Storage is a Postgres-backed implementation of the storage interface
type Storage struct {
	db *gorm.DB
}

// New connects to the database at dsn and migrates the schema
func New(dsn string) (*Storage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&playerRow{}, &gameResultRow{}, &auditLogRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Player operations

func (s *Storage) FindPlayer(ctx context.Context, studentNumber string) (*model.Player, error) {
	var row playerRow
	err := s.db.WithContext(ctx).Where("student_number = ?", studentNumber).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) PlayerExists(ctx context.Context, studentNumber string) (bool, error) {
	return playerExists(s.db.WithContext(ctx), studentNumber)
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	var rows []playerRow
	if err := s.db.WithContext(ctx).
		Order("registration_date_ns DESC").
		Order("student_number DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	players := make([]*model.Player, len(rows))
	for i := range rows {
		players[i] = rows[i].toModel()
	}
	return players, nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&playerRow{}).Count(&n).Error
	return int(n), err
}

// Game result operations

func (s *Storage) QueryGameResults(ctx context.Context, filter storage.GameFilter) ([]*model.GameResult, error) {
	q := s.gameQuery(ctx, filter).Order(orderBy("date_played_ns", filter.Order))
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []gameResultRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	games := make([]*model.GameResult, len(rows))
	for i := range rows {
		games[i] = rows[i].toModel()
	}
	return games, nil
}

func (s *Storage) CountGameResults(ctx context.Context, filter storage.GameFilter) (int, error) {
	var n int64
	err := s.gameQuery(ctx, filter).Count(&n).Error
	return int(n), err
}

func (s *Storage) gameQuery(ctx context.Context, f storage.GameFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&gameResultRow{})
	if f.StudentNumber != "" {
		q = q.Where("student_number = ?", f.StudentNumber)
	}
	if f.Result != "" {
		q = q.Where("result = ?", f.Result)
	}
	return timeRange(q, "date_played_ns", f.From, f.To)
}

// Audit operations

func (s *Storage) QueryAuditLogs(ctx context.Context, filter storage.AuditFilter) ([]*model.AuditLog, error) {
	q := s.db.WithContext(ctx).Model(&auditLogRow{})
	if filter.StudentNumber != "" {
		q = q.Where("student_number = ?", filter.StudentNumber)
	}
	q = timeRange(q, "timestamp_ns", filter.From, filter.To)
	q = q.Order(orderBy("timestamp_ns", filter.Order))
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []auditLogRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	logs := make([]*model.AuditLog, len(rows))
	for i := range rows {
		logs[i] = rows[i].toModel()
	}
	return logs, nil
}

// Batch operations

func (s *Storage) Apply(ctx context.Context, batch storage.Batch) error {
	if err := storage.CheckBatch(batch); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p := batch.Player; p != nil {
			row := playerRow{
				StudentNumber:      p.StudentNumber,
				FirstName:          p.FirstName,
				LastName:           p.LastName,
				RegistrationDateNs: p.RegistrationDate.UnixNano(),
			}
			// A concurrent insert of the same key surfaces as a unique violation
			if err := tx.Create(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return model.ErrDuplicateStudent
				}
				return err
			}
		}

		if g := batch.GameResult; g != nil {
			exists, err := playerExists(tx, g.StudentNumber)
			if err != nil {
				return err
			}
			if !exists {
				return model.ErrPlayerNotFound
			}
			row := gameResultRow{
				ID:            g.ID,
				StudentNumber: g.StudentNumber,
				Result:        g.Result,
				RetryCount:    g.RetryCount,
				DatePlayedNs:  g.DatePlayed.UnixNano(),
			}
			if err := tx.Omit("Player").Create(&row).Error; err != nil {
				return err
			}
		}

		if a := batch.AuditLog; a != nil {
			row := auditLogRow{
				ID:            a.ID,
				StudentNumber: a.StudentNumber,
				Action:        a.Action,
				Status:        string(a.Status),
				TimestampNs:   a.Timestamp.UnixNano(),
				Details:       a.Details,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func playerExists(db *gorm.DB, studentNumber string) (bool, error) {
	var n int64
	if err := db.Model(&playerRow{}).Where("student_number = ?", studentNumber).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func orderBy(column string, order storage.Order) string {
	if order == storage.OldestFirst {
		return column + " ASC, id ASC"
	}
	return column + " DESC, id DESC"
}

// timeRange applies inclusive nanosecond bounds to column
func timeRange(q *gorm.DB, column string, from, to time.Time) *gorm.DB {
	lo, hi, ok := storage.NanoRange(from, to)
	if !ok {
		return q.Where("1 = 0")
	}
	if lo != nil {
		q = q.Where(column+" >= ?", *lo)
	}
	if hi != nil {
		q = q.Where(column+" <= ?", *hi)
	}
	return q
}

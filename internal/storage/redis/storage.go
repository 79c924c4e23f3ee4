package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Records are JSON documents; sorted sets scored by time index them.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) FindPlayer(ctx context.Context, studentNumber string) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(studentNumber)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) PlayerExists(ctx context.Context, studentNumber string) (bool, error) {
	exists, err := s.client.Exists(ctx, playerKey(studentNumber)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	studentNumbers, err := s.client.ZRevRange(ctx, playersIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(studentNumbers))
	for i, sn := range studentNumbers {
		keys[i] = playerKey(sn)
	}

	players, err := fetchAll[model.Player](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}
	storage.SortPlayers(players)
	return players, nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	n, err := s.client.ZCard(ctx, playersIndexKey()).Result()
	return int(n), err
}

// Game result operations

func (s *Storage) QueryGameResults(ctx context.Context, filter storage.GameFilter) ([]*model.GameResult, error) {
	ids, err := s.client.ZRangeByScore(ctx, gameIndexFor(filter), &redis.ZRangeBy{
		Min: scoreMin(filter.From),
		Max: scoreMax(filter.To),
	}).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(id)
	}

	candidates, err := fetchAll[model.GameResult](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}

	// Scores are millisecond-truncated, so re-check exact bounds here
	games := candidates[:0]
	for _, g := range candidates {
		if storage.MatchGame(g, filter) {
			games = append(games, g)
		}
	}
	storage.SortGames(games, filter.Order)
	return storage.Truncate(games, filter.Limit), nil
}

func (s *Storage) CountGameResults(ctx context.Context, filter storage.GameFilter) (int, error) {
	// A single index with no time bounds is counted directly
	if filter.From.IsZero() && filter.To.IsZero() && (filter.StudentNumber == "" || filter.Result == "") {
		n, err := s.client.ZCard(ctx, gameIndexFor(filter)).Result()
		return int(n), err
	}

	filter.Limit = 0
	games, err := s.QueryGameResults(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(games), nil
}

// gameIndexFor picks the narrowest index covering the filter
func gameIndexFor(filter storage.GameFilter) string {
	switch {
	case filter.StudentNumber != "":
		return gamesByStudentIndexKey(filter.StudentNumber)
	case filter.Result != "":
		return gamesByResultIndexKey(filter.Result)
	default:
		return gamesIndexKey()
	}
}

// Audit operations

func (s *Storage) QueryAuditLogs(ctx context.Context, filter storage.AuditFilter) ([]*model.AuditLog, error) {
	indexKey := auditIndexKey()
	if filter.StudentNumber != "" {
		indexKey = auditByStudentIndexKey(filter.StudentNumber)
	}

	ids, err := s.client.ZRangeByScore(ctx, indexKey, &redis.ZRangeBy{
		Min: scoreMin(filter.From),
		Max: scoreMax(filter.To),
	}).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = auditKey(id)
	}

	candidates, err := fetchAll[model.AuditLog](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}

	logs := candidates[:0]
	for _, a := range candidates {
		if storage.MatchAudit(a, filter) {
			logs = append(logs, a)
		}
	}
	storage.SortAuditLogs(logs, filter.Order)
	return storage.Truncate(logs, filter.Limit), nil
}

// Batch operations

func (s *Storage) Apply(ctx context.Context, batch storage.Batch) error {
	if err := storage.CheckBatch(batch); err != nil {
		return err
	}

	// Marshal up front so the transaction only does I/O
	var playerData, gameData, auditData []byte
	var err error
	if batch.Player != nil {
		if playerData, err = json.Marshal(batch.Player); err != nil {
			return err
		}
	}
	if batch.GameResult != nil {
		if gameData, err = json.Marshal(batch.GameResult); err != nil {
			return err
		}
	}
	if batch.AuditLog != nil {
		if auditData, err = json.Marshal(batch.AuditLog); err != nil {
			return err
		}
	}

	// Watch the player keys the batch's constraints depend on
	var watched []string
	if batch.Player != nil {
		watched = append(watched, playerKey(batch.Player.StudentNumber))
	}
	if batch.GameResult != nil {
		watched = append(watched, playerKey(batch.GameResult.StudentNumber))
	}

	txf := func(tx *redis.Tx) error {
		if batch.Player != nil {
			n, err := tx.Exists(ctx, playerKey(batch.Player.StudentNumber)).Result()
			if err != nil {
				return err
			}
			if n > 0 {
				return model.ErrDuplicateStudent
			}
		}
		if batch.GameResult != nil && (batch.Player == nil || batch.Player.StudentNumber != batch.GameResult.StudentNumber) {
			n, err := tx.Exists(ctx, playerKey(batch.GameResult.StudentNumber)).Result()
			if err != nil {
				return err
			}
			if n == 0 {
				return model.ErrPlayerNotFound
			}
		}

		// Records and their indices commit in one MULTI/EXEC
		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if p := batch.Player; p != nil {
				pipe.Set(ctx, playerKey(p.StudentNumber), playerData, 0)
				pipe.ZAdd(ctx, playersIndexKey(), redis.Z{Score: score(p.RegistrationDate), Member: p.StudentNumber})
			}
			if g := batch.GameResult; g != nil {
				member := redis.Z{Score: score(g.DatePlayed), Member: g.ID}
				pipe.Set(ctx, gameKey(g.ID), gameData, 0)
				pipe.ZAdd(ctx, gamesIndexKey(), member)
				pipe.ZAdd(ctx, gamesByStudentIndexKey(g.StudentNumber), member)
				pipe.ZAdd(ctx, gamesByResultIndexKey(g.Result), member)
			}
			if a := batch.AuditLog; a != nil {
				member := redis.Z{Score: score(a.Timestamp), Member: a.ID}
				pipe.Set(ctx, auditKey(a.ID), auditData, 0)
				pipe.ZAdd(ctx, auditIndexKey(), member)
				pipe.ZAdd(ctx, auditByStudentIndexKey(a.StudentNumber), member)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < s.cfg.MaxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, watched...)
		if errors.Is(err, redis.TxFailedErr) {
			continue // a watched key changed; re-check constraints
		}
		return err
	}
	return fmt.Errorf("apply batch: gave up after %d conflicting attempts", s.cfg.MaxTxRetries)
}

// fetchAll loads JSON documents with MGET, skipping keys that no longer exist
func fetchAll[T any](ctx context.Context, client *redis.Client, keys []string) ([]*T, error) {
	if len(keys) == 0 {
		return []*T{}, nil
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*T, 0, len(values))
	for i, val := range values {
		if val == nil {
			continue
		}
		str, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected value type %T for %s", val, keys[i])
		}
		var item T
		if err := json.Unmarshal([]byte(str), &item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		items = append(items, &item)
	}
	return items, nil
}

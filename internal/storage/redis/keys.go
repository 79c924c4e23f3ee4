package redis

import (
	"fmt"
	"strconv"
	"time"
)

// Key prefix for all slot machine data
const keyPrefix = "slot"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(studentNumber string) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, studentNumber)
}

// playersIndexKey returns the Redis key for the ZSET of student numbers by registration time
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// gameKey returns the Redis key for a GameResult
func gameKey(id string) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the ZSET of all game ids by date played
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// gamesByStudentIndexKey returns the Redis key for the ZSET of a student's game ids
func gamesByStudentIndexKey(studentNumber string) string {
	return fmt.Sprintf("%s:idx:games_by_student:%s", keyPrefix, studentNumber)
}

// gamesByResultIndexKey returns the Redis key for the ZSET of game ids with a result
func gamesByResultIndexKey(result string) string {
	return fmt.Sprintf("%s:idx:games_by_result:%s", keyPrefix, result)
}

// auditKey returns the Redis key for an AuditLog
func auditKey(id string) string {
	return fmt.Sprintf("%s:audit:%s", keyPrefix, id)
}

// auditIndexKey returns the Redis key for the ZSET of all audit ids by timestamp
func auditIndexKey() string {
	return fmt.Sprintf("%s:idx:audit", keyPrefix)
}

// auditByStudentIndexKey returns the Redis key for the ZSET of a student's audit ids
func auditByStudentIndexKey(studentNumber string) string {
	return fmt.Sprintf("%s:idx:audit_by_student:%s", keyPrefix, studentNumber)
}

// score converts a timestamp to a sorted set score. Millisecond precision
// keeps scores exact in a float64; callers re-check exact bounds after fetching.
func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// scoreMin returns the ZRANGEBYSCORE lower bound for an inclusive time bound
func scoreMin(t time.Time) string {
	if t.IsZero() {
		return "-inf"
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// scoreMax returns the ZRANGEBYSCORE upper bound for an inclusive time bound
func scoreMax(t time.Time) string {
	if t.IsZero() {
		return "+inf"
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

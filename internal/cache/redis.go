package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gdg-garage/memorial-api/internal/attendance"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "memorial:summary:"

// SummaryCache keeps public attendance summaries in Redis. Errors degrade to
// cache misses so the database stays the source of truth.
//
// Each memorial has a generation counter that Invalidate increments. Entries
// carry the generation they were computed under and are only served while it
// is current, so a summary computed before a write can never be served after
// it.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type entry struct {
	Generation int64              `json:"generation"`
	Summary    attendance.Summary `json:"summary"`
}

func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// Connect dials addr and checks the connection.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", addr)
	}
	return client, nil
}

func key(slug string) string {
	return keyPrefix + slug
}

func generationKey(slug string) string {
	return keyPrefix + slug + ":generation"
}

func (c *SummaryCache) GetSummary(ctx context.Context, slug string) (*attendance.Summary, int64, bool) {
	vals, err := c.client.MGet(ctx, key(slug), generationKey(slug)).Result()
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Summary cache read failed")
		return nil, -1, false
	}

	generation, err := parseGeneration(vals[1])
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Unreadable summary generation")
		return nil, -1, false
	}

	s, ok := decodeEntry(vals[0], generation)
	if !ok {
		return nil, generation, false
	}
	return s, generation, true
}

func (c *SummaryCache) SetSummary(ctx context.Context, slug string, generation int64, s attendance.Summary) {
	data, err := json.Marshal(entry{Generation: generation, Summary: s})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(slug), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Summary cache write failed")
	}
}

func (c *SummaryCache) Invalidate(ctx context.Context, slug string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(slug))
		pipe.Del(ctx, key(slug))
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Summary cache invalidation failed")
	}
}

// parseGeneration reads an MGET value; a missing counter is generation 0.
func parseGeneration(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, errors.Wrap(err, "parse generation")
	default:
		return 0, errors.Errorf("unexpected generation value %T", v)
	}
}

// decodeEntry returns the cached summary if it belongs to generation.
func decodeEntry(v any, generation int64) (*attendance.Summary, bool) {
	raw, ok := v.(string)
	if !ok {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		log.Warn().Err(err).Msg("Ignoring undecodable cached summary")
		return nil, false
	}
	if e.Generation != generation {
		return nil, false
	}
	return &e.Summary, true
}

package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gdg-garage/memorial-api/internal/attendance"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ attendance.SummaryCache = (*SummaryCache)(nil)

func TestKeys(t *testing.T) {
	assert.Equal(t, "memorial:summary:kari-nordmann", key("kari-nordmann"))
	assert.Equal(t, "memorial:summary:kari-nordmann:generation", generationKey("kari-nordmann"))
}

func TestParseGeneration(t *testing.T) {
	gen, err := parseGeneration(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	gen, err = parseGeneration("7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), gen)

	_, err = parseGeneration("seven")
	assert.Error(t, err)
}

func TestDecodeEntry(t *testing.T) {
	sum := attendance.Summary{TotalConfirmed: 3, EntriesConfirmed: 2, Capacity: 60}
	data, err := json.Marshal(entry{Generation: 4, Summary: sum})
	require.NoError(t, err)

	got, ok := decodeEntry(string(data), 4)
	require.True(t, ok)
	assert.Equal(t, sum, *got)

	// Written before the last invalidation.
	_, ok = decodeEntry(string(data), 5)
	assert.False(t, ok)

	_, ok = decodeEntry(nil, 0)
	assert.False(t, ok)

	_, ok = decodeEntry("{not json", 4)
	assert.False(t, ok)
}

func TestSummaryCache_UnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewSummaryCache(client, time.Minute)
	ctx := context.Background()

	c.SetSummary(ctx, "kari", 0, attendance.Summary{TotalConfirmed: 1, Capacity: 2})
	got, gen, ok := c.GetSummary(ctx, "kari")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, int64(-1), gen, "a failed read must not be cached over")
	c.Invalidate(ctx, "kari")
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, "127.0.0.1:1")
	require.Error(t, err)
}

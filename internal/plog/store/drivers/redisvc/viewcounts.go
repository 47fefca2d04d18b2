// Package redisvc implements the view count buffer on Redis. Counters live in
// plain INCR keys, the flush queue is a set, and view dedupe uses SET NX with
// a TTL window.
package redisvc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	countKeyPrefix  = "plog:views:count:"
	viewedKeyPrefix = "plog:views:seen:"
	pendingSetKey   = "plog:views:pending"
)

// getAndReset atomically reads and deletes a counter key so concurrent
// increments between the read and the delete cannot be lost.
var getAndReset = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if v == false then
	return 0
end
redis.call('DEL', KEYS[1])
return tonumber(v)
`)

type ViewCounts struct {
	client *redis.Client
}

func New(addr string) *ViewCounts {
	return &ViewCounts{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// NewWithClient wraps an existing client. Used by tests.
func NewWithClient(client *redis.Client) *ViewCounts {
	return &ViewCounts{client: client}
}

func (v *ViewCounts) MarkViewed(ctx context.Context, postID int64, viewerKey string, window time.Duration) (bool, error) {
	key := viewedKeyPrefix + strconv.FormatInt(postID, 10) + ":" + viewerKey
	return v.client.SetNX(ctx, key, 1, window).Result()
}

func (v *ViewCounts) IncrementCount(ctx context.Context, postID int64) (int64, error) {
	count, err := v.client.Incr(ctx, countKey(postID)).Result()
	if err != nil {
		return 0, err
	}
	if err := v.client.SAdd(ctx, pendingSetKey, postID).Err(); err != nil {
		return 0, err
	}
	return count, nil
}

func (v *ViewCounts) PendingPostIDs(ctx context.Context) ([]int64, error) {
	members, err := v.client.SMembers(ctx, pendingSetKey).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redisvc: bad pending member %q: %w", member, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (v *ViewCounts) GetAndResetCount(ctx context.Context, postID int64) (int64, error) {
	return getAndReset.Run(ctx, v.client, []string{countKey(postID)}).Int64()
}

func (v *ViewCounts) RemovePending(ctx context.Context, postID int64) error {
	return v.client.SRem(ctx, pendingSetKey, postID).Err()
}

func (v *ViewCounts) Ping(ctx context.Context) error {
	return v.client.Ping(ctx).Err()
}

func (v *ViewCounts) Close() error {
	return v.client.Close()
}

func countKey(postID int64) string {
	return countKeyPrefix + strconv.FormatInt(postID, 10)
}

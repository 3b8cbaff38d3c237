package storage

import (
	"context"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	redissvc "talentlink/service/storage/redis"
)

const unreadTTL = 10 * time.Minute

// UnreadCache caches per-viewer unread counts for conversation listings.
// Best-effort only: a cold or unavailable cache always falls back to counting
// live-gated messages in the store. Invalidated on send/read.
type UnreadCache struct {
	rdb *goredis.Client
}

// NewUnreadCache returns a cache backed by the global Redis client, or a
// disabled cache when Redis was never initialized.
func NewUnreadCache() *UnreadCache {
	return &UnreadCache{rdb: redissvc.TryGetRedis()}
}

func unreadKey(conversationID, viewerID string) string {
	return "unread:" + conversationID + ":" + viewerID
}

func (c *UnreadCache) Get(ctx context.Context, conversationID, viewerID string) (int64, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}
	v, err := c.rdb.Get(ctx, unreadKey(conversationID, viewerID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *UnreadCache) Set(ctx context.Context, conversationID, viewerID string, n int64) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Set(ctx, unreadKey(conversationID, viewerID), n, unreadTTL)
}

// Invalidate drops both parties' cached counts for a conversation.
func (c *UnreadCache) Invalidate(ctx context.Context, conversationID string, viewerIDs ...string) {
	if c == nil || c.rdb == nil {
		return
	}
	keys := make([]string, 0, len(viewerIDs))
	for _, v := range viewerIDs {
		keys = append(keys, unreadKey(conversationID, v))
	}
	if len(keys) > 0 {
		c.rdb.Del(ctx, keys...)
	}
}

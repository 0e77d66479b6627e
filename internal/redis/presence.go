package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Presence tracks which displays currently hold a live connection. Keys
// carry a TTL so a crashed gateway cannot leave displays marked online
// forever; the websocket read loop refreshes them on every heartbeat.
type Presence struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPresence(address, username, password string, ttl time.Duration) *Presence {
	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
	return &Presence{rdb: rdb, ttl: ttl}
}

func key(displayID int) string {
	return fmt.Sprintf("display:online:%d", displayID)
}

// MarkOnline flags the display as connected. Best effort: presence is an
// observability aid, a redis hiccup must not break the connection path.
func (p *Presence) MarkOnline(ctx context.Context, displayID int) {
	if err := p.rdb.Set(ctx, key(displayID), time.Now().UTC().Format(time.RFC3339), p.ttl).Err(); err != nil {
		log.Warn().Err(err).Int("display_id", displayID).Msg("failed to mark display online")
	}
}

// Heartbeat refreshes the online TTL.
func (p *Presence) Heartbeat(ctx context.Context, displayID int) {
	p.MarkOnline(ctx, displayID)
}

// MarkOffline drops the online flag immediately.
func (p *Presence) MarkOffline(ctx context.Context, displayID int) {
	if err := p.rdb.Del(ctx, key(displayID)).Err(); err != nil {
		log.Warn().Err(err).Int("display_id", displayID).Msg("failed to mark display offline")
	}
}

// IsOnline reports whether the display has a live, recently heartbeaten
// connection.
func (p *Presence) IsOnline(ctx context.Context, displayID int) bool {
	n, err := p.rdb.Exists(ctx, key(displayID)).Result()
	if err != nil {
		log.Warn().Err(err).Int("display_id", displayID).Msg("presence lookup failed")
		return false
	}
	return n > 0
}

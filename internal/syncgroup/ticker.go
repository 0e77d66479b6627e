package syncgroup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/events"
	"github.com/crxwnd/signage-sub000/internal/model"
)

// DefaultTickInterval keeps inter-display drift inside roughly twice the
// tick period under normal network conditions.
const DefaultTickInterval = 100 * time.Millisecond

// Tick is the server-authoritative position update pushed to every member
// of a playing group. Clients never negotiate time among themselves.
type Tick struct {
	GroupID int `json:"group_id"`
	model.PlaybackRef
	CurrentTime     float64             `json:"current_time"`
	ServerTimestamp int64               `json:"server_timestamp"`
	PlaybackState   model.PlaybackState `json:"playback_state"`
}

// Ticker drives the broadcast loop: every interval it walks the playing
// groups, computes their current position and publishes a tick to each
// group's room.
type Ticker struct {
	store    *RuntimeStore
	pub      events.Publisher
	interval time.Duration
}

func NewTicker(store *RuntimeStore, pub events.Publisher, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Ticker{store: store, pub: pub, interval: interval}
}

// Run blocks until ctx is cancelled. The in-flight broadcast pass always
// finishes; cancellation is only observed between ticks.
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", t.interval).Msg("tick broadcaster started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("tick broadcaster stopped")
			return
		case <-ticker.C:
			t.broadcast()
		}
	}
}

func (t *Ticker) broadcast() {
	now := t.store.clock.Now()
	for _, g := range t.store.ListGroups() {
		if g.State != model.StatePlaying {
			continue
		}
		tick := Tick{
			GroupID:         g.ID,
			PlaybackRef:     g.PlaybackRef,
			CurrentTime:     g.CurrentTime,
			ServerTimestamp: now.UnixMilli(),
			PlaybackState:   g.State,
		}
		if err := t.pub.Publish(events.GroupRoom(g.ID), events.EventTick, tick); err != nil {
			log.Error().Err(err).Int("group_id", g.ID).Msg("tick publish failed")
		}
	}
}

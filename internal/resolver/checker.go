package resolver

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/events"
	"github.com/crxwnd/signage-sub000/internal/model"
)

// DefaultCheckInterval is the schedule re-evaluation cadence. Deliberately
// coarse: schedule boundaries are minute-granularity, ticks are not.
const DefaultCheckInterval = 60 * time.Second

// resolveTimeout bounds the persistence reads of one display's resolution
// inside the checker loop.
const resolveTimeout = 5 * time.Second

// DisplayLister enumerates the fleet for the periodic sweep.
type DisplayLister interface {
	ListDisplays(ctx context.Context) ([]model.Display, error)
}

// ScheduleEvent is the payload of schedule:activated/ended/changed events.
type ScheduleEvent struct {
	DisplayID int                  `json:"display_id"`
	Source    model.ContentSource  `json:"source"`
	Previous  *model.ContentSource `json:"previous,omitempty"`
}

// Checker sweeps every display on a fixed cadence, re-resolves it, and
// emits schedule lifecycle events to the display's room when the winning
// schedule changes. Independent of the tick loop.
type Checker struct {
	resolver *Resolver
	displays DisplayLister
	pub      events.Publisher
	interval time.Duration

	// last winning source per display, only touched by the Run goroutine.
	last map[int]model.ContentSource
}

func NewChecker(r *Resolver, displays DisplayLister, pub events.Publisher, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Checker{
		resolver: r,
		displays: displays,
		pub:      pub,
		interval: interval,
		last:     make(map[int]model.ContentSource),
	}
}

// Run blocks until ctx is cancelled; the in-flight sweep finishes first.
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", c.interval).Msg("schedule checker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("schedule checker stopped")
			return
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}

// Sweep resolves every display once and publishes transitions. Exported so
// boot code can prime the state and tests can drive it directly.
func (c *Checker) Sweep(ctx context.Context) {
	listCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
	displays, err := c.displays.ListDisplays(listCtx)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("schedule sweep could not list displays")
		return
	}

	for _, d := range displays {
		resolveCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
		src, err := c.resolver.Resolve(resolveCtx, d.ID)
		cancel()
		if err != nil {
			log.Error().Err(err).Int("display_id", d.ID).Msg("schedule sweep resolution failed")
			continue
		}
		c.publishTransition(d.ID, src)
	}
}

func (c *Checker) publishTransition(displayID int, src model.ContentSource) {
	prev, seen := c.last[displayID]
	c.last[displayID] = src
	if !seen {
		// First observation is a baseline, not a transition.
		return
	}

	wasSchedule := prev.Kind == model.SourceSchedule
	isSchedule := src.Kind == model.SourceSchedule

	var event string
	switch {
	case !wasSchedule && isSchedule:
		event = events.EventScheduleActivated
	case wasSchedule && !isSchedule:
		event = events.EventScheduleEnded
	case wasSchedule && isSchedule && !sameSource(prev, src):
		event = events.EventScheduleChanged
	default:
		return
	}

	payload := ScheduleEvent{DisplayID: displayID, Source: src}
	if wasSchedule {
		p := prev
		payload.Previous = &p
	}
	if err := c.pub.Publish(events.DisplayRoom(displayID), event, payload); err != nil {
		log.Error().Err(err).Int("display_id", displayID).Str("event", event).Msg("schedule event publish failed")
	}
}

func sameSource(a, b model.ContentSource) bool {
	return a.Kind == b.Kind &&
		a.Priority == b.Priority &&
		eqIntPtr(a.ContentID, b.ContentID) &&
		eqIntPtr(a.PlaylistID, b.PlaylistID)
}

func eqIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

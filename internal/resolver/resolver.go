package resolver

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/model"
	"github.com/crxwnd/signage-sub000/internal/schedule"
)

// Source is the persistence read surface the cascade consults. Every call
// honors ctx; callers put a deadline on it so a slow store fails the whole
// resolution instead of stalling it.
type Source interface {
	GetDisplay(ctx context.Context, displayID int) (model.Display, error)
	// AlertsForDisplay returns alerts with is_active=true scoped to the
	// display, its area (alerts without a display scope) or hotel-wide
	// (alerts with neither scope), ordered priority DESC, created_at DESC,
	// id DESC.
	AlertsForDisplay(ctx context.Context, d model.Display) ([]model.Alert, error)
	// SchedulesForDisplay returns is_active schedules scoped the same way.
	SchedulesForDisplay(ctx context.Context, d model.Display) ([]model.Schedule, error)
	GetSchedule(ctx context.Context, scheduleID int) (model.Schedule, error)
	// PlaylistForDisplay returns the display's assigned playlist holding
	// only ready content items, or nil when nothing is assigned.
	PlaylistForDisplay(ctx context.Context, displayID int) (*model.Playlist, error)
}

// SyncState is the runtime view of synchronized playback, served by the
// syncgroup.RuntimeStore.
type SyncState interface {
	SnapshotForDisplay(displayID int) (model.GroupSnapshot, bool)
}

// Resolver decides what one display shows right now. Read-only and
// side-effect-free: safe to call at arbitrary frequency, and two calls with
// no state change in between return identical output.
type Resolver struct {
	src  Source
	sync SyncState
	now  func() time.Time
}

func New(src Source, sync SyncState) *Resolver {
	return &Resolver{src: src, sync: sync, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (r *Resolver) WithNow(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// errorSource is what callers get when resolution itself failed. Never a
// guess, never stale data.
func errorSource() model.ContentSource {
	return model.ContentSource{Kind: model.SourceNone, Priority: model.BandNone, Reason: "resolution error"}
}

// Resolve runs the cascade, strictly in order, first match wins:
// alert, sync, schedule, playlist, fallback, none.
func (r *Resolver) Resolve(ctx context.Context, displayID int) (model.ContentSource, error) {
	now := r.now()

	d, err := r.src.GetDisplay(ctx, displayID)
	if err != nil {
		return errorSource(), fmt.Errorf("resolve display %d: %w", displayID, err)
	}

	// 1. Alerts.
	alerts, err := r.src.AlertsForDisplay(ctx, d)
	if err != nil {
		return errorSource(), fmt.Errorf("resolve display %d alerts: %w", displayID, err)
	}
	current := alerts[:0:0]
	for _, a := range alerts {
		if a.CurrentAt(now) {
			current = append(current, a)
		}
	}
	if len(current) > 0 {
		sort.SliceStable(current, func(i, j int) bool {
			if current[i].Priority != current[j].Priority {
				return current[i].Priority > current[j].Priority
			}
			if !current[i].CreatedAt.Equal(current[j].CreatedAt) {
				return current[i].CreatedAt.After(current[j].CreatedAt)
			}
			return current[i].ID > current[j].ID
		})
		a := current[0]
		cid := a.ContentID
		return model.ContentSource{
			Kind:        model.SourceAlert,
			Priority:    model.BandAlert + a.Priority,
			PlaybackRef: model.PlaybackRef{ContentID: &cid},
			Reason:      fmt.Sprintf("alert %d (priority %d) is active", a.ID, a.Priority),
		}, nil
	}

	// 2. Synchronized playback. Only a group that is actually playing can
	// win, and a group with its own schedule window only wins inside it.
	if snap, ok := r.sync.SnapshotForDisplay(displayID); ok && snap.State == model.StatePlaying {
		inWindow := true
		if snap.ScheduleID != nil {
			sched, err := r.src.GetSchedule(ctx, *snap.ScheduleID)
			if err != nil {
				return errorSource(), fmt.Errorf("resolve display %d sync schedule: %w", displayID, err)
			}
			inWindow = schedule.IsActiveNow(sched, now)
		}
		if inWindow {
			return model.ContentSource{
				Kind:        model.SourceSync,
				Priority:    model.BandSync,
				PlaybackRef: snap.Ref,
				Reason:      fmt.Sprintf("sync group %d is playing", snap.GroupID),
			}, nil
		}
	}

	// 3. Schedules. Sort before iterating so ties break deterministically.
	schedules, err := r.src.SchedulesForDisplay(ctx, d)
	if err != nil {
		return errorSource(), fmt.Errorf("resolve display %d schedules: %w", displayID, err)
	}
	sort.SliceStable(schedules, func(i, j int) bool {
		if schedules[i].Priority != schedules[j].Priority {
			return schedules[i].Priority > schedules[j].Priority
		}
		return schedules[i].ID < schedules[j].ID
	})
	for _, s := range schedules {
		if !schedule.IsActiveNow(s, now) {
			continue
		}
		pid := s.PlaylistID
		return model.ContentSource{
			Kind:        model.SourceSchedule,
			Priority:    model.BandSchedule + s.Priority,
			PlaybackRef: model.PlaybackRef{PlaylistID: &pid},
			Reason:      fmt.Sprintf("schedule %d active (%s)", s.ID, schedule.Describe(s)),
		}, nil
	}

	// 4. Static playlist. Only ready content counts.
	pl, err := r.src.PlaylistForDisplay(ctx, displayID)
	if err != nil {
		return errorSource(), fmt.Errorf("resolve display %d playlist: %w", displayID, err)
	}
	if pl != nil && len(pl.Items) > 0 {
		pid := pl.ID
		return model.ContentSource{
			Kind:        model.SourcePlaylist,
			Priority:    model.BandPlaylist,
			PlaybackRef: model.PlaybackRef{PlaylistID: &pid},
			Reason:      fmt.Sprintf("assigned playlist %d", pl.ID),
		}, nil
	}

	// 5. Fallback.
	if d.FallbackContentID != nil {
		cid := *d.FallbackContentID
		return model.ContentSource{
			Kind:        model.SourceFallback,
			Priority:    model.BandNone,
			PlaybackRef: model.PlaybackRef{ContentID: &cid},
			Reason:      "fallback content",
		}, nil
	}

	// 6. Nothing.
	log.Debug().Int("display_id", displayID).Msg("no content source for display")
	return model.ContentSource{
		Kind:     model.SourceNone,
		Priority: model.BandNone,
		Reason:   "no content assigned",
	}, nil
}

package schedule

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/model"
	"github.com/crxwnd/signage-sub000/internal/recurrence"
)

// timeOfDayLayout matches the stored "15:04" window strings. Lexical
// comparison on this layout is chronological comparison.
const timeOfDayLayout = "15:04"

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsActiveNow reports whether the schedule covers now. Three checks, all
// AND-ed: date range, time-of-day window (inclusive on both ends), and the
// recurrence rule when one is set. A rule that fails to parse makes the
// schedule inactive — content is never shown on a broken rule.
func IsActiveNow(s model.Schedule, now time.Time) bool {
	if !s.IsActive {
		return false
	}
	if now.Before(startOfDay(s.StartDate)) {
		return false
	}
	if s.EndDate != nil && now.After(startOfDay(*s.EndDate).Add(24*time.Hour-time.Second)) {
		return false
	}
	tod := now.Format(timeOfDayLayout)
	if tod < s.StartTime || tod > s.EndTime {
		return false
	}
	if s.Recurrence != nil {
		occurs, err := recurrence.OccursOn(*s.Recurrence, startOfDay(s.StartDate), now)
		if err != nil {
			log.Warn().Err(err).Int("schedule_id", s.ID).Msg("schedule has unparseable recurrence, treating as never occurring")
			return false
		}
		if !occurs {
			return false
		}
	}
	return true
}

// UpcomingOccurrences returns up to count occurrence days at or after from.
// One-time schedules yield the start date. A malformed rule degrades the
// same way: the start date comes back as the single occurrence, never an
// error to the caller.
func UpcomingOccurrences(s model.Schedule, from time.Time, count int) []time.Time {
	if s.Recurrence == nil {
		return []time.Time{s.StartDate}
	}
	occ, err := recurrence.NextOccurrences(*s.Recurrence, startOfDay(s.StartDate), from, count)
	if err != nil {
		log.Warn().Err(err).Int("schedule_id", s.ID).Msg("falling back to start date for occurrences")
		return []time.Time{s.StartDate}
	}
	return occ
}

// Describe renders the schedule for admin UIs. Best effort only.
func Describe(s model.Schedule) string {
	rule := "one-time"
	if s.Recurrence != nil {
		rule = recurrence.Describe(*s.Recurrence)
	}
	return fmt.Sprintf("%s %s-%s from %s", rule, s.StartTime, s.EndTime, s.StartDate.Format("2006-01-02"))
}

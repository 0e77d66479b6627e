package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// ErrBadRule wraps any RRULE parse failure. Callers must fail closed:
// a schedule with an unparseable rule never occurs.
var ErrBadRule = fmt.Errorf("malformed recurrence rule")

// IsValidRule reports whether s parses as an RFC 5545 RRULE. The empty
// string is valid and means "no recurrence"; writers normalize it to NULL
// before it ever reaches the evaluators.
func IsValidRule(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	_, err := rrule.StrToROption(s)
	return err == nil
}

func parse(rule string, anchor time.Time) (*rrule.RRule, error) {
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadRule, rule, err)
	}
	opt.Dtstart = anchor
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadRule, rule, err)
	}
	return r, nil
}

// OccursOn reports whether the rule, anchored at anchor, has an occurrence
// intersecting the calendar day containing day (00:00:00 through 23:59:59
// in day's location).
func OccursOn(rule string, anchor, day time.Time) (bool, error) {
	r, err := parse(rule, anchor)
	if err != nil {
		return false, err
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Second)
	return len(r.Between(dayStart, dayEnd, true)) > 0, nil
}

// NextOccurrences returns up to count occurrences at or after from, in
// ascending order. Each call is a fresh computation; the result is never
// resumable.
func NextOccurrences(rule string, anchor, from time.Time, count int) ([]time.Time, error) {
	r, err := parse(rule, anchor)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, count)
	cur := r.After(from, true)
	for !cur.IsZero() && len(out) < count {
		out = append(out, cur)
		cur = r.After(cur, false)
	}
	return out, nil
}

// Describe renders a rule for humans. Best effort: on parse failure the raw
// rule text comes back unchanged rather than an error.
func Describe(rule string) string {
	if strings.TrimSpace(rule) == "" {
		return "one-time"
	}
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return rule
	}
	freq := "repeats"
	switch opt.Freq {
	case rrule.DAILY:
		freq = "daily"
	case rrule.WEEKLY:
		freq = "weekly"
	case rrule.MONTHLY:
		freq = "monthly"
	case rrule.YEARLY:
		freq = "yearly"
	case rrule.HOURLY:
		freq = "hourly"
	}
	if opt.Interval > 1 {
		return fmt.Sprintf("%s (every %d)", freq, opt.Interval)
	}
	return freq
}

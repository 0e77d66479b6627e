package model

import "time"

// Alert is emergency/override content. Scope is hotel-wide unless DisplayID
// or AreaID narrows it; DisplayID wins over AreaID when both are set.
// The active window is [StartAt, EndAt); a nil EndAt never expires by time.
type Alert struct {
	ID        int        `db:"id"         json:"id"`
	HotelID   int        `db:"hotel_id"   json:"hotel_id"`
	DisplayID *int       `db:"display_id" json:"display_id"`
	AreaID    *int       `db:"area_id"    json:"area_id"`
	IsActive  bool       `db:"is_active"  json:"is_active"`
	StartAt   time.Time  `db:"start_at"   json:"start_at"`
	EndAt     *time.Time `db:"end_at"     json:"end_at"`
	Priority  int        `db:"priority"   json:"priority"`
	ContentID int        `db:"content_id" json:"content_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// CurrentAt reports whether the alert window covers t. It does not look at
// IsActive; callers filter on that separately (usually in SQL).
func (a Alert) CurrentAt(t time.Time) bool {
	if t.Before(a.StartAt) {
		return false
	}
	if a.EndAt != nil && !t.Before(*a.EndAt) {
		return false
	}
	return true
}

package model

import "time"

// Schedule plays a playlist on a recurring or one-time basis. Scope follows
// the same rules as Alert: display, or area, or hotel-wide when neither is
// set. DisplayID and AreaID are never both set (enforced at creation).
//
// StartTime/EndTime are local "15:04" strings with StartTime < EndTime
// enforced at creation. Recurrence is an RFC 5545 RRULE; nil means one-time
// over the [StartDate, EndDate] range.
type Schedule struct {
	ID         int        `db:"id"          json:"id"`
	HotelID    int        `db:"hotel_id"    json:"hotel_id"`
	DisplayID  *int       `db:"display_id"  json:"display_id"`
	AreaID     *int       `db:"area_id"     json:"area_id"`
	PlaylistID int        `db:"playlist_id" json:"playlist_id"`
	StartDate  time.Time  `db:"start_date"  json:"start_date"`
	EndDate    *time.Time `db:"end_date"    json:"end_date"`
	StartTime  string     `db:"start_time"  json:"start_time"`
	EndTime    string     `db:"end_time"    json:"end_time"`
	Recurrence *string    `db:"recurrence"  json:"recurrence"`
	Priority   int        `db:"priority"    json:"priority"`
	IsActive   bool       `db:"is_active"   json:"is_active"`
	CreatedAt  time.Time  `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"  json:"updated_at"`
}

package model

import "time"

// Hotel is the top-level tenant every display, alert and schedule hangs off.
type Hotel struct {
	ID        int       `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Timezone  string    `db:"timezone"   json:"timezone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Area groups displays inside a hotel (lobby, bar, floor 3, ...).
type Area struct {
	ID      int    `db:"id"       json:"id"`
	HotelID int    `db:"hotel_id" json:"hotel_id"`
	Name    string `db:"name"     json:"name"`
}

// Display represents a physical screen in the fleet.
type Display struct {
	ID                int       `db:"id"                  json:"id"`
	HotelID           int       `db:"hotel_id"            json:"hotel_id"`
	AreaID            *int      `db:"area_id"             json:"area_id"`
	DeviceID          *string   `db:"device_id"           json:"device_id"`
	Name              string    `db:"name"                json:"name"`
	Location          *string   `db:"location"            json:"location"`
	FallbackContentID *int      `db:"fallback_content_id" json:"fallback_content_id"`
	CreatedAt         time.Time `db:"created_at"          json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"          json:"updated_at"`
}

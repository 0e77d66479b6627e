package model

import "time"

// PlaybackState is the transport state of a sync group.
type PlaybackState string

const (
	StateStopped PlaybackState = "stopped"
	StatePlaying PlaybackState = "playing"
	StatePaused  PlaybackState = "paused"
)

// GroupSnapshot is the read-only view of a runtime group the resolver needs:
// enough to decide whether the sync band wins, nothing more.
type GroupSnapshot struct {
	GroupID    int
	State      PlaybackState
	Ref        PlaybackRef
	ScheduleID *int
}

// SyncGroupConfig is the persisted configuration for a synchronized playback
// group. The runtime state (position, conductor, transport state) lives in
// the syncgroup package and is rebuilt from this record on boot.
type SyncGroupConfig struct {
	ID         int       `db:"id"          json:"id"`
	HotelID    int       `db:"hotel_id"    json:"hotel_id"`
	Name       string    `db:"name"        json:"name"`
	ContentID  *int      `db:"content_id"  json:"content_id"`
	PlaylistID *int      `db:"playlist_id" json:"playlist_id"`
	ScheduleID *int      `db:"schedule_id" json:"schedule_id"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
	MemberIDs  []int     `db:"-"           json:"member_ids,omitempty"`
}

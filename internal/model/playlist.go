package model

import "time"

type Playlist struct {
	ID        int            `db:"id"         json:"id"`
	Name      string         `db:"name"       json:"name"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
	Items     []PlaylistItem `json:"items,omitempty"`
}

type PlaylistItem struct {
	ID         int      `db:"id"          json:"id"`
	PlaylistID int      `db:"playlist_id" json:"playlist_id"`
	ContentID  int      `db:"content_id"  json:"content_id"`
	Position   int      `db:"position"    json:"position"`
	Duration   *int     `db:"duration"    json:"duration,omitempty"`
	Content    *Content `db:"-"           json:"content,omitempty"`
}

// DisplayPlaylist assigns a static playlist to one display.
type DisplayPlaylist struct {
	ID         int       `db:"id"          json:"id"`
	DisplayID  int       `db:"display_id"  json:"display_id"`
	PlaylistID int       `db:"playlist_id" json:"playlist_id"`
	AssignedAt time.Time `db:"assigned_at" json:"assigned_at"`
	Playlist   *Playlist `db:"-"           json:"playlist,omitempty"`
}

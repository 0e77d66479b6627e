package model

// SourceKind tags the winning branch of the resolver cascade. Rendering
// clients switch on it exhaustively; new kinds must extend that switch.
type SourceKind string

const (
	SourceAlert    SourceKind = "alert"
	SourceSync     SourceKind = "sync"
	SourceSchedule SourceKind = "schedule"
	SourcePlaylist SourceKind = "playlist"
	SourceFallback SourceKind = "fallback"
	SourceNone     SourceKind = "none"
)

// Priority bands. Bands never overlap: alerts land at BandAlert+priority,
// schedules at BandSchedule+priority (schedule priority is capped below
// BandSync-BandSchedule at creation).
const (
	BandAlert    = 1000
	BandSync     = 500
	BandSchedule = 100
	BandPlaylist = 0
	BandNone     = -1
)

// PlaybackRef points at what a display should render: a single content item,
// a playlist, or both (playlist with a current item).
type PlaybackRef struct {
	ContentID  *int `json:"content_id,omitempty"`
	PlaylistID *int `json:"playlist_id,omitempty"`
}

// ContentSource is the resolver output. One flat shape for every kind; the
// field set is a stable contract with rendering clients. Never persisted,
// recomputed on every resolution.
type ContentSource struct {
	Kind     SourceKind `json:"kind"`
	Priority int        `json:"priority"`
	PlaybackRef
	Reason string `json:"reason"`
}

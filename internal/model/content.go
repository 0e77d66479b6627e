package model

import "time"

// Content statuses written by the external transcoding pipeline.
// Only ContentReady items are eligible for playback.
const (
	ContentProcessing = "processing"
	ContentReady      = "ready"
	ContentFailed     = "failed"
)

type Content struct {
	ID        int       `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Type      string    `db:"type"       json:"type"`
	URL       string    `db:"url"        json:"url"`
	Status    string    `db:"status"     json:"status"`
	Duration  *int      `db:"duration"   json:"duration,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/model"
)

// PlaylistForDisplay loads the display's assigned playlist with only ready
// content items attached. Returns nil (not an error) when the display has no
// assignment or the playlist holds no playable items.
func (s *pgStore) PlaylistForDisplay(ctx context.Context, displayID int) (*model.Playlist, error) {
	var pl model.Playlist
	const q = `
	SELECT p.id, p.name, p.created_at, p.updated_at
	  FROM display_playlists dp
	  JOIN playlists p ON p.id = dp.playlist_id
	 WHERE dp.display_id = $1;`
	if err := s.db.GetContext(ctx, &pl, q, displayID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Int("display_id", displayID).Msg("PlaylistForDisplay failed")
		return nil, err
	}

	const itemsQ = `
	SELECT i.id, i.playlist_id, i.content_id, i.position, i.duration
	  FROM playlist_items i
	  JOIN content c ON c.id = i.content_id
	 WHERE i.playlist_id = $1
	   AND c.status = 'ready'
	 ORDER BY i.position;`
	if err := s.db.SelectContext(ctx, &pl.Items, itemsQ, pl.ID); err != nil {
		log.Error().Err(err).Int("playlist_id", pl.ID).Msg("PlaylistForDisplay items failed")
		return nil, err
	}
	if len(pl.Items) == 0 {
		return nil, nil
	}
	return &pl, nil
}

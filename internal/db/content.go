package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/model"
)

func (s *pgStore) GetContent(ctx context.Context, contentID int) (model.Content, error) {
	var c model.Content
	const q = `
	SELECT id, name, type, url, status, duration, created_at
	  FROM content
	 WHERE id = $1;`
	if err := s.db.GetContext(ctx, &c, q, contentID); err != nil {
		log.Error().Err(err).Int("content_id", contentID).Msg("GetContent failed")
		return model.Content{}, err
	}
	return c, nil
}

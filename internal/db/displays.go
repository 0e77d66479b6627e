package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/model"
)

func (s *pgStore) GetDisplay(ctx context.Context, displayID int) (model.Display, error) {
	var d model.Display
	const q = `
	SELECT id, hotel_id, area_id, device_id, name, location, fallback_content_id, created_at, updated_at
	  FROM displays
	 WHERE id = $1;`
	if err := s.db.GetContext(ctx, &d, q, displayID); err != nil {
		log.Error().Err(err).Int("display_id", displayID).Msg("GetDisplay failed")
		return model.Display{}, err
	}
	return d, nil
}

func (s *pgStore) ListDisplays(ctx context.Context) ([]model.Display, error) {
	var out []model.Display
	const q = `
	SELECT id, hotel_id, area_id, device_id, name, location, fallback_content_id, created_at, updated_at
	  FROM displays
	 ORDER BY id;`
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		log.Error().Err(err).Msg("ListDisplays failed")
		return nil, err
	}
	return out, nil
}

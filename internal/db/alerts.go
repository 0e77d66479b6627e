package db

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/model"
)

func (s *pgStore) CreateAlert(ctx context.Context, a model.Alert) (model.Alert, error) {
	var out model.Alert
	const q = `
	INSERT INTO alerts (hotel_id, display_id, area_id, is_active, start_at, end_at, priority, content_id, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now())
	RETURNING id, hotel_id, display_id, area_id, is_active, start_at, end_at, priority, content_id, created_at;`
	if err := s.db.GetContext(ctx, &out, q,
		a.HotelID, a.DisplayID, a.AreaID, a.IsActive, a.StartAt, a.EndAt, a.Priority, a.ContentID); err != nil {
		log.Error().Err(err).Msg("CreateAlert failed")
		return model.Alert{}, err
	}
	return out, nil
}

func (s *pgStore) UpdateAlert(ctx context.Context, alertID int, isActive *bool, priority *int, endAt *time.Time) (model.Alert, error) {
	var out model.Alert
	const q = `
	UPDATE alerts
	   SET is_active = COALESCE($1, is_active),
	       priority  = COALESCE($2, priority),
	       end_at    = COALESCE($3, end_at)
	 WHERE id = $4
	RETURNING id, hotel_id, display_id, area_id, is_active, start_at, end_at, priority, content_id, created_at;`
	if err := s.db.GetContext(ctx, &out, q, isActive, priority, endAt, alertID); err != nil {
		log.Error().Err(err).Int("alert_id", alertID).Msg("UpdateAlert failed")
		return model.Alert{}, err
	}
	return out, nil
}

func (s *pgStore) DeleteAlert(ctx context.Context, alertID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1;`, alertID)
	if err != nil {
		log.Error().Err(err).Int("alert_id", alertID).Msg("DeleteAlert failed")
	}
	return err
}

func (s *pgStore) ListAlerts(ctx context.Context, hotelID int) ([]model.Alert, error) {
	var out []model.Alert
	const q = `
	SELECT id, hotel_id, display_id, area_id, is_active, start_at, end_at, priority, content_id, created_at
	  FROM alerts
	 WHERE hotel_id = $1
	 ORDER BY priority DESC, created_at DESC, id DESC;`
	if err := s.db.SelectContext(ctx, &out, q, hotelID); err != nil {
		log.Error().Err(err).Int("hotel_id", hotelID).Msg("ListAlerts failed")
		return nil, err
	}
	return out, nil
}

// AlertsForDisplay returns active alerts whose scope covers the display:
// pinned to the display itself, to the display's area (when the alert has no
// display scope), or hotel-wide (neither scope set). Ordering matches the
// resolver's tiebreak so the first current row wins.
func (s *pgStore) AlertsForDisplay(ctx context.Context, d model.Display) ([]model.Alert, error) {
	var out []model.Alert
	const q = `
	SELECT id, hotel_id, display_id, area_id, is_active, start_at, end_at, priority, content_id, created_at
	  FROM alerts
	 WHERE hotel_id = $1
	   AND is_active = true
	   AND (display_id = $2
	        OR (display_id IS NULL AND area_id IS NOT NULL AND area_id = $3)
	        OR (display_id IS NULL AND area_id IS NULL))
	 ORDER BY priority DESC, created_at DESC, id DESC;`
	if err := s.db.SelectContext(ctx, &out, q, d.HotelID, d.ID, d.AreaID); err != nil {
		log.Error().Err(err).Int("display_id", d.ID).Msg("AlertsForDisplay failed")
		return nil, err
	}
	return out, nil
}

package db

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/model"
)

// normalizeRecurrence maps the "empty but set" rule to NULL so evaluators
// only ever see a real rule or no rule at all.
func normalizeRecurrence(rule *string) *string {
	if rule == nil || strings.TrimSpace(*rule) == "" {
		return nil
	}
	return rule
}

func (s *pgStore) CreateSchedule(ctx context.Context, sc model.Schedule) (model.Schedule, error) {
	var out model.Schedule
	const q = `
	INSERT INTO schedules
	  (hotel_id, display_id, area_id, playlist_id, start_date, end_date, start_time, end_time,
	   recurrence, priority, is_active, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now(),now())
	RETURNING id, hotel_id, display_id, area_id, playlist_id, start_date, end_date, start_time, end_time,
	          recurrence, priority, is_active, created_at, updated_at;`
	if err := s.db.GetContext(ctx, &out, q,
		sc.HotelID, sc.DisplayID, sc.AreaID, sc.PlaylistID, sc.StartDate, sc.EndDate,
		sc.StartTime, sc.EndTime, normalizeRecurrence(sc.Recurrence), sc.Priority, sc.IsActive); err != nil {
		log.Error().Err(err).Msg("CreateSchedule failed")
		return model.Schedule{}, err
	}
	return out, nil
}

func (s *pgStore) DeleteSchedule(ctx context.Context, scheduleID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1;`, scheduleID)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("DeleteSchedule failed")
	}
	return err
}

func (s *pgStore) GetSchedule(ctx context.Context, scheduleID int) (model.Schedule, error) {
	var out model.Schedule
	const q = `
	SELECT id, hotel_id, display_id, area_id, playlist_id, start_date, end_date, start_time, end_time,
	       recurrence, priority, is_active, created_at, updated_at
	  FROM schedules
	 WHERE id = $1;`
	if err := s.db.GetContext(ctx, &out, q, scheduleID); err != nil {
		log.Error().Err(err).Int("schedule_id", scheduleID).Msg("GetSchedule failed")
		return model.Schedule{}, err
	}
	return out, nil
}

func (s *pgStore) ListSchedules(ctx context.Context, hotelID int) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `
	SELECT id, hotel_id, display_id, area_id, playlist_id, start_date, end_date, start_time, end_time,
	       recurrence, priority, is_active, created_at, updated_at
	  FROM schedules
	 WHERE hotel_id = $1
	 ORDER BY priority DESC, id;`
	if err := s.db.SelectContext(ctx, &out, q, hotelID); err != nil {
		log.Error().Err(err).Int("hotel_id", hotelID).Msg("ListSchedules failed")
		return nil, err
	}
	return out, nil
}

// SchedulesForDisplay gathers active schedules whose scope covers the
// display (display, area or hotel-wide), sorted priority DESC so the
// resolver's iteration order is deterministic.
func (s *pgStore) SchedulesForDisplay(ctx context.Context, d model.Display) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `
	SELECT id, hotel_id, display_id, area_id, playlist_id, start_date, end_date, start_time, end_time,
	       recurrence, priority, is_active, created_at, updated_at
	  FROM schedules
	 WHERE hotel_id = $1
	   AND is_active = true
	   AND (display_id = $2
	        OR (display_id IS NULL AND area_id IS NOT NULL AND area_id = $3)
	        OR (display_id IS NULL AND area_id IS NULL))
	 ORDER BY priority DESC, id;`
	if err := s.db.SelectContext(ctx, &out, q, d.HotelID, d.ID, d.AreaID); err != nil {
		log.Error().Err(err).Int("display_id", d.ID).Msg("SchedulesForDisplay failed")
		return nil, err
	}
	return out, nil
}

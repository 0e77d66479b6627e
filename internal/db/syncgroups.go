package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/model"
)

func (s *pgStore) CreateSyncGroup(ctx context.Context, cfg model.SyncGroupConfig) (model.SyncGroupConfig, error) {
	var out model.SyncGroupConfig
	const q = `
	INSERT INTO sync_groups (hotel_id, name, content_id, playlist_id, schedule_id, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,now(),now())
	RETURNING id, hotel_id, name, content_id, playlist_id, schedule_id, created_at, updated_at;`
	if err := s.db.GetContext(ctx, &out, q,
		cfg.HotelID, cfg.Name, cfg.ContentID, cfg.PlaylistID, cfg.ScheduleID); err != nil {
		log.Error().Err(err).Msg("CreateSyncGroup failed")
		return model.SyncGroupConfig{}, err
	}
	if err := s.replaceMembers(ctx, out.ID, cfg.MemberIDs); err != nil {
		return model.SyncGroupConfig{}, err
	}
	out.MemberIDs = append([]int(nil), cfg.MemberIDs...)
	return out, nil
}

func (s *pgStore) UpdateSyncGroupMembers(ctx context.Context, groupID int, memberIDs []int) error {
	return s.replaceMembers(ctx, groupID, memberIDs)
}

func (s *pgStore) replaceMembers(ctx context.Context, groupID int, memberIDs []int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sync_group_members WHERE group_id = $1;`, groupID); err != nil {
		log.Error().Err(err).Int("group_id", groupID).Msg("clearing sync group members failed")
		return err
	}
	for pos, displayID := range memberIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sync_group_members (group_id, display_id, position)
			VALUES ($1,$2,$3);`, groupID, displayID, pos); err != nil {
			log.Error().Err(err).Int("group_id", groupID).Int("display_id", displayID).Msg("adding sync group member failed")
			return err
		}
	}
	return tx.Commit()
}

func (s *pgStore) DeleteSyncGroup(ctx context.Context, groupID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sync_groups WHERE id = $1;`, groupID)
	if err != nil {
		log.Error().Err(err).Int("group_id", groupID).Msg("DeleteSyncGroup failed")
	}
	return err
}

// ListSyncGroups returns every configured group with its ordered membership.
// Membership order matters: initial conductor election walks it.
func (s *pgStore) ListSyncGroups(ctx context.Context) ([]model.SyncGroupConfig, error) {
	var out []model.SyncGroupConfig
	const q = `
	SELECT id, hotel_id, name, content_id, playlist_id, schedule_id, created_at, updated_at
	  FROM sync_groups
	 ORDER BY id;`
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		log.Error().Err(err).Msg("ListSyncGroups failed")
		return nil, err
	}

	type memberRow struct {
		GroupID   int `db:"group_id"`
		DisplayID int `db:"display_id"`
	}
	var rows []memberRow
	const membersQ = `
	SELECT group_id, display_id
	  FROM sync_group_members
	 ORDER BY group_id, position;`
	if err := s.db.SelectContext(ctx, &rows, membersQ); err != nil {
		log.Error().Err(err).Msg("ListSyncGroups members failed")
		return nil, err
	}
	byGroup := make(map[int][]int)
	for _, r := range rows {
		byGroup[r.GroupID] = append(byGroup[r.GroupID], r.DisplayID)
	}
	for i := range out {
		out[i].MemberIDs = byGroup[out[i].ID]
	}
	return out, nil
}

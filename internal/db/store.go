// exposes a Store interface that is passed to API calls and engine loops
package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/crxwnd/signage-sub000/internal/model"
)

type Store interface {
	// display functions
	GetDisplay(ctx context.Context, displayID int) (model.Display, error)
	ListDisplays(ctx context.Context) ([]model.Display, error)

	// alert functions
	CreateAlert(ctx context.Context, a model.Alert) (model.Alert, error)
	UpdateAlert(ctx context.Context, alertID int, isActive *bool, priority *int, endAt *time.Time) (model.Alert, error)
	DeleteAlert(ctx context.Context, alertID int) error
	ListAlerts(ctx context.Context, hotelID int) ([]model.Alert, error)
	AlertsForDisplay(ctx context.Context, d model.Display) ([]model.Alert, error)

	// schedule functions
	CreateSchedule(ctx context.Context, s model.Schedule) (model.Schedule, error)
	DeleteSchedule(ctx context.Context, scheduleID int) error
	GetSchedule(ctx context.Context, scheduleID int) (model.Schedule, error)
	ListSchedules(ctx context.Context, hotelID int) ([]model.Schedule, error)
	SchedulesForDisplay(ctx context.Context, d model.Display) ([]model.Schedule, error)

	// playlist and content functions
	PlaylistForDisplay(ctx context.Context, displayID int) (*model.Playlist, error)
	GetContent(ctx context.Context, contentID int) (model.Content, error)

	// sync group configuration
	CreateSyncGroup(ctx context.Context, cfg model.SyncGroupConfig) (model.SyncGroupConfig, error)
	UpdateSyncGroupMembers(ctx context.Context, groupID int, memberIDs []int) error
	DeleteSyncGroup(ctx context.Context, groupID int) error
	ListSyncGroups(ctx context.Context) ([]model.SyncGroupConfig, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}

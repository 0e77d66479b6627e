package endpoints_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crxwnd/signage-sub000/internal/events"
	"github.com/crxwnd/signage-sub000/internal/http/api"
	"github.com/crxwnd/signage-sub000/internal/http/api/admin/endpoints"
	"github.com/crxwnd/signage-sub000/internal/model"
	"github.com/crxwnd/signage-sub000/internal/syncgroup"
)

// memStore is an in-memory db.Store for handler tests.
type memStore struct {
	nextID    int
	alerts    map[int]model.Alert
	schedules map[int]model.Schedule
	groups    map[int]model.SyncGroupConfig
}

func newMemStore() *memStore {
	return &memStore{
		nextID:    1,
		alerts:    make(map[int]model.Alert),
		schedules: make(map[int]model.Schedule),
		groups:    make(map[int]model.SyncGroupConfig),
	}
}

func (m *memStore) id() int { v := m.nextID; m.nextID++; return v }

func (m *memStore) GetDisplay(_ context.Context, displayID int) (model.Display, error) {
	return model.Display{ID: displayID, HotelID: 1}, nil
}

func (m *memStore) ListDisplays(_ context.Context) ([]model.Display, error) { return nil, nil }

func (m *memStore) CreateAlert(_ context.Context, a model.Alert) (model.Alert, error) {
	a.ID = m.id()
	a.CreatedAt = time.Now()
	m.alerts[a.ID] = a
	return a, nil
}

func (m *memStore) UpdateAlert(_ context.Context, alertID int, isActive *bool, priority *int, endAt *time.Time) (model.Alert, error) {
	a := m.alerts[alertID]
	if isActive != nil {
		a.IsActive = *isActive
	}
	if priority != nil {
		a.Priority = *priority
	}
	if endAt != nil {
		a.EndAt = endAt
	}
	m.alerts[alertID] = a
	return a, nil
}

func (m *memStore) DeleteAlert(_ context.Context, alertID int) error {
	delete(m.alerts, alertID)
	return nil
}

func (m *memStore) ListAlerts(_ context.Context, _ int) ([]model.Alert, error) {
	out := make([]model.Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		out = append(out, a)
	}
	return out, nil
}

func (m *memStore) AlertsForDisplay(_ context.Context, _ model.Display) ([]model.Alert, error) {
	return nil, nil
}

func (m *memStore) CreateSchedule(_ context.Context, s model.Schedule) (model.Schedule, error) {
	s.ID = m.id()
	m.schedules[s.ID] = s
	return s, nil
}

func (m *memStore) DeleteSchedule(_ context.Context, scheduleID int) error {
	delete(m.schedules, scheduleID)
	return nil
}

func (m *memStore) GetSchedule(_ context.Context, scheduleID int) (model.Schedule, error) {
	return m.schedules[scheduleID], nil
}

func (m *memStore) ListSchedules(_ context.Context, _ int) ([]model.Schedule, error) {
	return nil, nil
}

func (m *memStore) SchedulesForDisplay(_ context.Context, _ model.Display) ([]model.Schedule, error) {
	return nil, nil
}

func (m *memStore) PlaylistForDisplay(_ context.Context, _ int) (*model.Playlist, error) {
	return nil, nil
}

func (m *memStore) GetContent(_ context.Context, contentID int) (model.Content, error) {
	return model.Content{ID: contentID, Status: model.ContentReady}, nil
}

func (m *memStore) CreateSyncGroup(_ context.Context, cfg model.SyncGroupConfig) (model.SyncGroupConfig, error) {
	cfg.ID = m.id()
	m.groups[cfg.ID] = cfg
	return cfg, nil
}

func (m *memStore) UpdateSyncGroupMembers(_ context.Context, groupID int, memberIDs []int) error {
	cfg := m.groups[groupID]
	cfg.MemberIDs = memberIDs
	m.groups[groupID] = cfg
	return nil
}

func (m *memStore) DeleteSyncGroup(_ context.Context, groupID int) error {
	delete(m.groups, groupID)
	return nil
}

func (m *memStore) ListSyncGroups(_ context.Context) ([]model.SyncGroupConfig, error) {
	return nil, nil
}

func setupRouter(t *testing.T) (*gin.Engine, *syncgroup.RuntimeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	runtime := syncgroup.NewRuntimeStore(events.NewRecorder(), nil)
	store := newMemStore()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin"},
		endpoints.AlertModule(store),
		endpoints.ScheduleModule(store),
		endpoints.SyncGroupModule(store, runtime),
	)
	return r, runtime
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSyncGroupLifecycleOverHTTP(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, "POST", "/api/admin/sync-groups", map[string]any{
		"hotel_id":   1,
		"name":       "lobby wall",
		"content_id": 3,
		"member_ids": []int{10, 11},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var state syncgroup.GroupState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, model.StateStopped, state.State)
	assert.Equal(t, []int{10, 11}, state.Members)

	w = doJSON(t, r, "POST", "/api/admin/sync-groups/1/start", map[string]any{
		"content_id": 3,
		"position":   10.0,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, model.StatePlaying, state.State)
	assert.InDelta(t, 10.0, state.PositionSeconds, 0.001)

	w = doJSON(t, r, "POST", "/api/admin/sync-groups/1/pause", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Pausing twice is an invalid transition.
	w = doJSON(t, r, "POST", "/api/admin/sync-groups/1/pause", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, "POST", "/api/admin/sync-groups/99/stop", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateScheduleValidation(t *testing.T) {
	r, _ := setupRouter(t)

	base := map[string]any{
		"hotel_id":    1,
		"playlist_id": 7,
		"start_date":  "2025-01-01T00:00:00Z",
		"start_time":  "09:00",
		"end_time":    "17:00",
		"is_active":   true,
	}

	w := doJSON(t, r, "POST", "/api/admin/schedules", base)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	bad := map[string]any{}
	for k, v := range base {
		bad[k] = v
	}
	bad["start_time"] = "17:00"
	bad["end_time"] = "09:00"
	w = doJSON(t, r, "POST", "/api/admin/schedules", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad["start_time"] = "09:00"
	bad["end_time"] = "17:00"
	bad["recurrence"] = "NOT_A_RULE"
	w = doJSON(t, r, "POST", "/api/admin/schedules", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad["recurrence"] = "FREQ=DAILY"
	bad["display_id"] = 1
	bad["area_id"] = 2
	w = doJSON(t, r, "POST", "/api/admin/schedules", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAlertValidation(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, "POST", "/api/admin/alerts", map[string]any{
		"hotel_id":   1,
		"content_id": 3,
		"start_at":   "2025-01-01T00:00:00Z",
		"is_active":  true,
		"priority":   5,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, "POST", "/api/admin/alerts", map[string]any{
		"hotel_id":   1,
		"content_id": 3,
		"start_at":   "2025-01-01T00:00:00Z",
		"display_id": 1,
		"area_id":    2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

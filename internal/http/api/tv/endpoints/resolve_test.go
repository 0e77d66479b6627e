package endpoints_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crxwnd/signage-sub000/internal/http/api"
	"github.com/crxwnd/signage-sub000/internal/http/api/tv/endpoints"
	"github.com/crxwnd/signage-sub000/internal/model"
	"github.com/crxwnd/signage-sub000/internal/resolver"
)

type stubSource struct {
	display  model.Display
	alerts   []model.Alert
	failing  bool
	fallback *int
}

var errStoreDown = errors.New("store down")

func (s *stubSource) GetDisplay(_ context.Context, displayID int) (model.Display, error) {
	if s.failing {
		return model.Display{}, errStoreDown
	}
	d := s.display
	d.ID = displayID
	d.FallbackContentID = s.fallback
	return d, nil
}

func (s *stubSource) AlertsForDisplay(_ context.Context, _ model.Display) ([]model.Alert, error) {
	if s.failing {
		return nil, errStoreDown
	}
	return s.alerts, nil
}

func (s *stubSource) SchedulesForDisplay(_ context.Context, _ model.Display) ([]model.Schedule, error) {
	return nil, nil
}

func (s *stubSource) GetSchedule(_ context.Context, _ int) (model.Schedule, error) {
	return model.Schedule{}, nil
}

func (s *stubSource) PlaylistForDisplay(_ context.Context, _ int) (*model.Playlist, error) {
	return nil, nil
}

type stubSync struct{}

func (stubSync) SnapshotForDisplay(_ int) (model.GroupSnapshot, bool) {
	return model.GroupSnapshot{}, false
}

func resolveRouter(src *stubSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	res := resolver.New(src, stubSync{})
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/tv"}, endpoints.ResolveModule(res))
	return r
}

func TestResolveEndpointReturnsAlert(t *testing.T) {
	now := time.Now()
	src := &stubSource{
		display: model.Display{HotelID: 1},
		alerts: []model.Alert{
			{ID: 4, ContentID: 9, IsActive: true, Priority: 5, StartAt: now.Add(-time.Hour), CreatedAt: now},
		},
	}
	r := resolveRouter(src)

	w := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/api/tv/displays/7/resolve", nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out model.ContentSource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, model.SourceAlert, out.Kind)
	assert.Equal(t, model.BandAlert+5, out.Priority)
	require.NotNil(t, out.ContentID)
	assert.Equal(t, 9, *out.ContentID)
}

func TestResolveEndpointFallsThroughToFallback(t *testing.T) {
	fallback := 42
	src := &stubSource{display: model.Display{HotelID: 1}, fallback: &fallback}
	r := resolveRouter(src)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/tv/displays/7/resolve", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var out model.ContentSource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, model.SourceFallback, out.Kind)
	require.NotNil(t, out.ContentID)
	assert.Equal(t, 42, *out.ContentID)
}

func TestResolveEndpointStoreFailureIs503(t *testing.T) {
	src := &stubSource{failing: true}
	r := resolveRouter(src)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/tv/displays/7/resolve", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var out model.ContentSource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, model.SourceNone, out.Kind)
	assert.Equal(t, "resolution error", out.Reason)
}

func TestResolveEndpointRejectsBadID(t *testing.T) {
	r := resolveRouter(&stubSource{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/tv/displays/nope/resolve", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

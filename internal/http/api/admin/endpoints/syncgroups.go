package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crxwnd/signage-sub000/internal/db"
	"github.com/crxwnd/signage-sub000/internal/http/api"
	"github.com/crxwnd/signage-sub000/internal/http/api/admin/packets"
	"github.com/crxwnd/signage-sub000/internal/model"
	"github.com/crxwnd/signage-sub000/internal/syncgroup"
)

type SyncGroupController struct {
	store   db.Store
	runtime *syncgroup.RuntimeStore
}

func SyncGroupModule(store db.Store, runtime *syncgroup.RuntimeStore) api.Module {
	ctl := &SyncGroupController{store: store, runtime: runtime}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/sync-groups", api.ResolveEndpoint(ctl.listGroups))
		c.POST("/sync-groups", api.ResolveEndpoint(ctl.createGroup))
		c.GET("/sync-groups/:id", api.ResolveEndpoint(ctl.getGroup))
		c.PUT("/sync-groups/:id/members", api.ResolveEndpoint(ctl.updateMembers))
		c.DELETE("/sync-groups/:id", api.ResolveEndpoint(ctl.deleteGroup))

		c.POST("/sync-groups/:id/start", api.ResolveEndpoint(ctl.start))
		c.POST("/sync-groups/:id/pause", api.ResolveEndpoint(ctl.pause))
		c.POST("/sync-groups/:id/resume", api.ResolveEndpoint(ctl.resume))
		c.POST("/sync-groups/:id/seek", api.ResolveEndpoint(ctl.seek))
		c.POST("/sync-groups/:id/stop", api.ResolveEndpoint(ctl.stop))
		c.POST("/sync-groups/:id/conductor", api.ResolveEndpoint(ctl.setConductor))
	})
}

func groupID(ctx *gin.Context) (int, *api.Error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, &api.Error{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	return id, nil
}

func runtimeError(err error) *api.Error {
	switch {
	case errors.Is(err, syncgroup.ErrGroupNotFound):
		return &api.Error{Code: http.StatusNotFound, Message: "sync group not found"}
	case errors.Is(err, syncgroup.ErrNotInGroup):
		return &api.Error{Code: http.StatusNotFound, Message: "display not in group"}
	case errors.Is(err, syncgroup.ErrAlreadyGrouped), errors.Is(err, syncgroup.ErrBadTransition):
		return &api.Error{Code: http.StatusConflict, Message: err.Error()}
	default:
		return &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}
}

// GET /api/admin/sync-groups
func (g *SyncGroupController) listGroups(ctx *gin.Context) (any, *api.Error) {
	return g.runtime.ListGroups(), nil
}

// POST /api/admin/sync-groups
func (g *SyncGroupController) createGroup(ctx *gin.Context) (any, *api.Error) {
	var req packets.CreateSyncGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if req.ContentID == nil && req.PlaylistID == nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "content_id or playlist_id is required"}
	}
	cfg, err := g.store.CreateSyncGroup(ctx.Request.Context(), model.SyncGroupConfig{
		HotelID:    req.HotelID,
		Name:       req.Name,
		ContentID:  req.ContentID,
		PlaylistID: req.PlaylistID,
		ScheduleID: req.ScheduleID,
		MemberIDs:  req.MemberIDs,
	})
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	if err := g.runtime.CreateGroup(cfg); err != nil {
		return nil, runtimeError(err)
	}
	state, err := g.runtime.Snapshot(cfg.ID)
	if err != nil {
		return nil, runtimeError(err)
	}
	return state, nil
}

// GET /api/admin/sync-groups/:id
func (g *SyncGroupController) getGroup(ctx *gin.Context) (any, *api.Error) {
	id, apiErr := groupID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	state, err := g.runtime.Snapshot(id)
	if err != nil {
		return nil, runtimeError(err)
	}
	return state, nil
}

// PUT /api/admin/sync-groups/:id/members
func (g *SyncGroupController) updateMembers(ctx *gin.Context) (any, *api.Error) {
	id, apiErr := groupID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.UpdateMembersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if err := g.store.UpdateSyncGroupMembers(ctx.Request.Context(), id, req.MemberIDs); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	if err := g.runtime.UpdateMembers(id, req.MemberIDs); err != nil {
		return nil, runtimeError(err)
	}
	state, err := g.runtime.Snapshot(id)
	if err != nil {
		return nil, runtimeError(err)
	}
	return state, nil
}

// DELETE /api/admin/sync-groups/:id
func (g *SyncGroupController) deleteGroup(ctx *gin.Context) (any, *api.Error) {
	id, apiErr := groupID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := g.store.DeleteSyncGroup(ctx.Request.Context(), id); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	if err := g.runtime.DeleteGroup(id); err != nil {
		return nil, runtimeError(err)
	}
	return gin.H{"deleted": true}, nil
}

// POST /api/admin/sync-groups/:id/start
func (g *SyncGroupController) start(ctx *gin.Context) (any, *api.Error) {
	id, apiErr := groupID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.StartPlaybackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}
	ref := model.PlaybackRef{ContentID: req.ContentID, PlaylistID: req.PlaylistID}
	if err := g.runtime.Start(id, ref, req.Position); err != nil {
		return nil, runtimeError(err)
	}
	state, err := g.runtime.Snapshot(id)
	if err != nil {
		return nil, runtimeError(err)
	}
	return state, nil
}

// POST /api/admin/sync-groups/:id/pause
func (g *SyncGroupController) pause(ctx *gin.Context) (any, *api.Error) {
	return g.transition(ctx, g.runtime.Pause)
}

// POST /api/admin/sync-groups/:id/resume
func (g *SyncGroupController) resume(ctx *gin.Context) (any, *api.Error) {
	return g.transition(ctx, g.runtime.Resume)
}

// POST /api/admin/sync-groups/:id/stop
func (g *SyncGroupController) stop(ctx *gin.Context) (any, *api.Error) {
	return g.transition(ctx, g.runtime.Stop)
}

func (g *SyncGroupController) transition(ctx *gin.Context, op func(int) error) (any, *api.Error) {
	id, apiErr := groupID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if err := op(id); err != nil {
		return nil, runtimeError(err)
	}
	state, err := g.runtime.Snapshot(id)
	if err != nil {
		return nil, runtimeError(err)
	}
	return state, nil
}

// POST /api/admin/sync-groups/:id/seek
func (g *SyncGroupController) seek(ctx *gin.Context) (any, *api.Error) {
	id, apiErr := groupID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.SeekRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if err := g.runtime.Seek(id, req.Position); err != nil {
		return nil, runtimeError(err)
	}
	state, err := g.runtime.Snapshot(id)
	if err != nil {
		return nil, runtimeError(err)
	}
	return state, nil
}

// POST /api/admin/sync-groups/:id/conductor
func (g *SyncGroupController) setConductor(ctx *gin.Context) (any, *api.Error) {
	id, apiErr := groupID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	var req packets.SetConductorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if err := g.runtime.SetConductor(id, req.DisplayID); err != nil {
		return nil, runtimeError(err)
	}
	state, err := g.runtime.Snapshot(id)
	if err != nil {
		return nil, runtimeError(err)
	}
	return state, nil
}

package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crxwnd/signage-sub000/internal/db"
	"github.com/crxwnd/signage-sub000/internal/http/api"
	"github.com/crxwnd/signage-sub000/internal/model"
	"github.com/crxwnd/signage-sub000/internal/redis"
)

type DisplayController struct {
	store    db.Store
	presence *redis.Presence
}

func DisplayModule(store db.Store, presence *redis.Presence) api.Module {
	ctl := &DisplayController{store: store, presence: presence}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/displays", api.ResolveEndpoint(ctl.listDisplays))
		c.GET("/displays/:id", api.ResolveEndpoint(ctl.getDisplay))
	})
}

// displayView decorates the display record with its live presence flag.
type displayView struct {
	model.Display
	Online bool `json:"online"`
}

// GET /api/admin/displays
func (d *DisplayController) listDisplays(ctx *gin.Context) (any, *api.Error) {
	displays, err := d.store.ListDisplays(ctx.Request.Context())
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	out := make([]displayView, 0, len(displays))
	for _, dp := range displays {
		out = append(out, displayView{
			Display: dp,
			Online:  d.presence.IsOnline(ctx.Request.Context(), dp.ID),
		})
	}
	return out, nil
}

// GET /api/admin/displays/:id
func (d *DisplayController) getDisplay(ctx *gin.Context) (any, *api.Error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	dp, err := d.store.GetDisplay(ctx.Request.Context(), id)
	if err != nil {
		return nil, &api.Error{Code: http.StatusNotFound, Message: "display not found"}
	}
	return displayView{
		Display: dp,
		Online:  d.presence.IsOnline(ctx.Request.Context(), dp.ID),
	}, nil
}

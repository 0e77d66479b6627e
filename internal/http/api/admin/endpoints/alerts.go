package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crxwnd/signage-sub000/internal/db"
	"github.com/crxwnd/signage-sub000/internal/http/api"
	"github.com/crxwnd/signage-sub000/internal/http/api/admin/packets"
	"github.com/crxwnd/signage-sub000/internal/model"
)

type AlertController struct{ store db.Store }

func AlertModule(store db.Store) api.Module {
	ctl := &AlertController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/alerts", api.ResolveEndpoint(ctl.listAlerts))
		c.POST("/alerts", api.ResolveEndpoint(ctl.createAlert))
		c.PATCH("/alerts/:id", api.ResolveEndpoint(ctl.updateAlert))
		c.DELETE("/alerts/:id", api.ResolveEndpoint(ctl.deleteAlert))
	})
}

// GET /api/admin/alerts?hotel_id=
func (a *AlertController) listAlerts(ctx *gin.Context) (any, *api.Error) {
	hotelID, err := strconv.Atoi(ctx.Query("hotel_id"))
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid hotel_id"}
	}
	alerts, err := a.store.ListAlerts(ctx.Request.Context(), hotelID)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return alerts, nil
}

// POST /api/admin/alerts
func (a *AlertController) createAlert(ctx *gin.Context) (any, *api.Error) {
	var req packets.CreateAlertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if req.DisplayID != nil && req.AreaID != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "alert scope is display or area, not both"}
	}
	if req.EndAt != nil && !req.EndAt.After(req.StartAt) {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "end_at must be after start_at"}
	}
	alert, err := a.store.CreateAlert(ctx.Request.Context(), model.Alert{
		HotelID:   req.HotelID,
		DisplayID: req.DisplayID,
		AreaID:    req.AreaID,
		IsActive:  req.IsActive,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Priority:  req.Priority,
		ContentID: req.ContentID,
	})
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return alert, nil
}

// PATCH /api/admin/alerts/:id
func (a *AlertController) updateAlert(ctx *gin.Context) (any, *api.Error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.UpdateAlertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}
	alert, err := a.store.UpdateAlert(ctx.Request.Context(), id, req.IsActive, req.Priority, req.EndAt)
	if err != nil {
		return nil, &api.Error{Code: http.StatusNotFound, Message: "alert not found"}
	}
	return alert, nil
}

// DELETE /api/admin/alerts/:id
func (a *AlertController) deleteAlert(ctx *gin.Context) (any, *api.Error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := a.store.DeleteAlert(ctx.Request.Context(), id); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return gin.H{"deleted": true}, nil
}

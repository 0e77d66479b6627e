package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crxwnd/signage-sub000/internal/db"
	"github.com/crxwnd/signage-sub000/internal/http/api"
	"github.com/crxwnd/signage-sub000/internal/http/api/admin/packets"
	"github.com/crxwnd/signage-sub000/internal/model"
	"github.com/crxwnd/signage-sub000/internal/recurrence"
	"github.com/crxwnd/signage-sub000/internal/schedule"
)

// maxSchedulePriority keeps the schedule band (100+priority) below the sync
// band at 500.
const maxSchedulePriority = 399

type ScheduleController struct{ store db.Store }

func ScheduleModule(store db.Store) api.Module {
	ctl := &ScheduleController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", api.ResolveEndpoint(ctl.listSchedules))
		c.POST("/schedules", api.ResolveEndpoint(ctl.createSchedule))
		c.GET("/schedules/:id/occurrences", api.ResolveEndpoint(ctl.listOccurrences))
		c.DELETE("/schedules/:id", api.ResolveEndpoint(ctl.deleteSchedule))
	})
}

func validTimeOfDay(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// GET /api/admin/schedules?hotel_id=
func (s *ScheduleController) listSchedules(ctx *gin.Context) (any, *api.Error) {
	hotelID, err := strconv.Atoi(ctx.Query("hotel_id"))
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid hotel_id"}
	}
	schedules, err := s.store.ListSchedules(ctx.Request.Context(), hotelID)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return schedules, nil
}

// POST /api/admin/schedules
func (s *ScheduleController) createSchedule(ctx *gin.Context) (any, *api.Error) {
	var req packets.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if req.DisplayID != nil && req.AreaID != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "schedule scope is display or area, not both"}
	}
	if !validTimeOfDay(req.StartTime) || !validTimeOfDay(req.EndTime) {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "start_time/end_time must be HH:MM"}
	}
	if req.StartTime >= req.EndTime {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "start_time must be before end_time"}
	}
	if req.Priority < 0 || req.Priority > maxSchedulePriority {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "priority out of range"}
	}
	if req.Recurrence != nil && !recurrence.IsValidRule(*req.Recurrence) {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid recurrence rule"}
	}
	created, err := s.store.CreateSchedule(ctx.Request.Context(), model.Schedule{
		HotelID:    req.HotelID,
		DisplayID:  req.DisplayID,
		AreaID:     req.AreaID,
		PlaylistID: req.PlaylistID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Recurrence: req.Recurrence,
		Priority:   req.Priority,
		IsActive:   req.IsActive,
	})
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return created, nil
}

// GET /api/admin/schedules/:id/occurrences?count=
func (s *ScheduleController) listOccurrences(ctx *gin.Context) (any, *api.Error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	count := 10
	if v := ctx.Query("count"); v != "" {
		if count, err = strconv.Atoi(v); err != nil || count < 1 {
			return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid count"}
		}
	}
	sched, err := s.store.GetSchedule(ctx.Request.Context(), id)
	if err != nil {
		return nil, &api.Error{Code: http.StatusNotFound, Message: "schedule not found"}
	}
	return gin.H{
		"schedule_id": sched.ID,
		"describe":    schedule.Describe(sched),
		"occurrences": schedule.UpcomingOccurrences(sched, time.Now(), count),
	}, nil
}

// DELETE /api/admin/schedules/:id
func (s *ScheduleController) deleteSchedule(ctx *gin.Context) (any, *api.Error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := s.store.DeleteSchedule(ctx.Request.Context(), id); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return gin.H{"deleted": true}, nil
}

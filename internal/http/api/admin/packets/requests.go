package packets

import "time"

type CreateAlertRequest struct {
	HotelID   int        `json:"hotel_id" binding:"required"`
	DisplayID *int       `json:"display_id"`
	AreaID    *int       `json:"area_id"`
	IsActive  bool       `json:"is_active"`
	StartAt   time.Time  `json:"start_at" binding:"required"`
	EndAt     *time.Time `json:"end_at"`
	Priority  int        `json:"priority"`
	ContentID int        `json:"content_id" binding:"required"`
}

type UpdateAlertRequest struct {
	IsActive *bool      `json:"is_active"`
	Priority *int       `json:"priority"`
	EndAt    *time.Time `json:"end_at"`
}

type CreateScheduleRequest struct {
	HotelID    int        `json:"hotel_id" binding:"required"`
	DisplayID  *int       `json:"display_id"`
	AreaID     *int       `json:"area_id"`
	PlaylistID int        `json:"playlist_id" binding:"required"`
	StartDate  time.Time  `json:"start_date" binding:"required"`
	EndDate    *time.Time `json:"end_date"`
	StartTime  string     `json:"start_time" binding:"required"`
	EndTime    string     `json:"end_time" binding:"required"`
	Recurrence *string    `json:"recurrence"`
	Priority   int        `json:"priority"`
	IsActive   bool       `json:"is_active"`
}

type CreateSyncGroupRequest struct {
	HotelID    int    `json:"hotel_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	ContentID  *int   `json:"content_id"`
	PlaylistID *int   `json:"playlist_id"`
	ScheduleID *int   `json:"schedule_id"`
	MemberIDs  []int  `json:"member_ids"`
}

type UpdateMembersRequest struct {
	MemberIDs []int `json:"member_ids" binding:"required"`
}

type StartPlaybackRequest struct {
	ContentID  *int    `json:"content_id"`
	PlaylistID *int    `json:"playlist_id"`
	Position   float64 `json:"position"`
}

type SeekRequest struct {
	Position float64 `json:"position"`
}

type SetConductorRequest struct {
	DisplayID int `json:"display_id" binding:"required"`
}

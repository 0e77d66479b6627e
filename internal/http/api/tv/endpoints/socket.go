package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/db"
	"github.com/crxwnd/signage-sub000/internal/http/api"
	"github.com/crxwnd/signage-sub000/internal/redis"
	"github.com/crxwnd/signage-sub000/internal/syncgroup"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// socketMessage is what displays send upstream over the socket. Ticks and
// group events flow downstream over MQTT rooms; this channel only carries
// lifecycle requests and heartbeats.
type socketMessage struct {
	Action  string `json:"action"` // "heartbeat" | "join_group" | "leave_group"
	GroupID int    `json:"group_id,omitempty"`
}

type SocketController struct {
	store    db.Store
	runtime  *syncgroup.RuntimeStore
	presence *redis.Presence
}

func SocketModule(store db.Store, runtime *syncgroup.RuntimeStore, presence *redis.Presence) api.Module {
	ctl := &SocketController{store: store, runtime: runtime, presence: presence}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/socket", ctl.serve)
	})
}

// GET /api/tv/socket?display_id=
//
// The socket is the inbound half of the realtime layer: it translates
// transport connections into DisplayConnected/DisplayDisconnected and
// join/leave calls on the runtime store. Outbound events ride MQTT rooms.
func (s *SocketController) serve(ctx *gin.Context) {
	displayID, err := strconv.Atoi(ctx.Query("display_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid display_id"})
		return
	}
	if _, err := s.store.GetDisplay(ctx.Request.Context(), displayID); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown display"})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Error().Err(err).Int("display_id", displayID).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	connID := fmt.Sprintf("ws-%d-%d", displayID, time.Now().UnixNano())
	s.runtime.DisplayConnected(connID, displayID)
	s.presence.MarkOnline(ctx.Request.Context(), displayID)
	defer func() {
		s.runtime.DisplayDisconnected(connID)
		s.presence.MarkOffline(ctx.Request.Context(), displayID)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.presence.Heartbeat(ctx.Request.Context(), displayID)

		var msg socketMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Int("display_id", displayID).Msg("unparseable socket message, ignoring")
			continue
		}
		switch msg.Action {
		case "join_group":
			if err := s.runtime.JoinGroup(connID, msg.GroupID, displayID); err != nil {
				s.logStale(err, displayID, msg.GroupID)
			}
		case "leave_group":
			if err := s.runtime.LeaveGroup(connID, msg.GroupID, displayID); err != nil {
				s.logStale(err, displayID, msg.GroupID)
			}
		}
	}
}

// Stale group references from displays are logged and dropped; a display
// re-syncs its view from the next group-updated event.
func (s *SocketController) logStale(err error, displayID, groupID int) {
	if errors.Is(err, syncgroup.ErrGroupNotFound) || errors.Is(err, syncgroup.ErrNotInGroup) {
		log.Warn().Err(err).Int("display_id", displayID).Int("group_id", groupID).Msg("ignoring stale group request")
		return
	}
	log.Error().Err(err).Int("display_id", displayID).Int("group_id", groupID).Msg("group request failed")
}

package syncgroup

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/events"
	"github.com/crxwnd/signage-sub000/internal/model"
)

// Two distinct election policies, kept deliberately separate:
//
//   - initial election promotes the FIRST CONNECTED MEMBER IN MEMBERSHIP
//     ORDER, so the screen listed first in the group config becomes the
//     timing authority when everything comes up cleanly;
//   - failover promotes the LONGEST-CONNECTED SURVIVOR, so a crash hands
//     authority to the member least likely to flap.
//
// Unifying them would silently change which physical screen becomes master
// after a crash; keep them apart unless product says otherwise.

func (s *RuntimeStore) electInitialLocked(g *group) {
	for _, id := range g.members {
		connID, ok := s.displayConn[id]
		if !ok {
			continue
		}
		s.promoteLocked(g, id, connID, ReasonElected)
		return
	}
}

func (s *RuntimeStore) electFailoverLocked(g *group) {
	old := g.conductorID
	var (
		bestID   int
		bestConn string
		bestAt   time.Time
		found    bool
	)
	for _, id := range g.members {
		if old != nil && id == *old {
			continue
		}
		connID, ok := s.displayConn[id]
		if !ok {
			continue
		}
		conn, ok := s.conns[connID]
		if !ok {
			continue
		}
		if !found || conn.connectedAt.Before(bestAt) {
			bestID, bestConn, bestAt, found = id, connID, conn.connectedAt, true
		}
	}

	if found {
		s.promoteLocked(g, bestID, bestConn, ReasonFailover)
		return
	}

	// Nobody left to promote. Freeze playback rather than discarding the
	// position; the group resumes where it was once a member reconnects
	// and an operator presses play.
	g.conductorID = nil
	g.conductorConnID = nil
	if g.state == model.StatePlaying {
		s.pauseLocked(g)
		log.Warn().Int("group_id", g.id).Msg("no connected member to conduct, pausing group")
	}
	s.publish(events.GroupRoom(g.id), events.EventConductorChanged, ConductorChange{
		GroupID:        g.id,
		OldConductorID: old,
		NewConductorID: nil,
		Reason:         ReasonFailover,
	})
	s.touchAndBroadcastLocked(g)
}

func (s *RuntimeStore) promoteLocked(g *group, displayID int, connID, reason string) {
	old := g.conductorID
	if old != nil && *old == displayID {
		return
	}
	id := displayID
	cid := connID
	g.conductorID = &id
	g.conductorConnID = &cid
	log.Info().Int("group_id", g.id).Int("conductor_id", displayID).Str("reason", reason).Msg("conductor changed")
	s.publish(events.GroupRoom(g.id), events.EventConductorChanged, ConductorChange{
		GroupID:        g.id,
		OldConductorID: old,
		NewConductorID: &id,
		Reason:         reason,
	})
}

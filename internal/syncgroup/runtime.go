package syncgroup

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/crxwnd/signage-sub000/internal/events"
	"github.com/crxwnd/signage-sub000/internal/model"
)

var (
	ErrGroupNotFound  = fmt.Errorf("sync group not found")
	ErrNotInGroup     = fmt.Errorf("display not in group")
	ErrAlreadyGrouped = fmt.Errorf("display already belongs to a sync group")
	ErrBadTransition  = fmt.Errorf("invalid playback transition")
)

// RuntimeStore owns all in-memory sync runtime state: the group table, the
// connection bindings and the display-to-group index. Everything sits behind
// one RWMutex; contention is low (tens to low thousands of displays) so one
// coarse lock beats per-group locking.
//
// The state is intentionally not durable. A process restart rebuilds groups
// from persisted config with every group stopped.
type RuntimeStore struct {
	mu    sync.RWMutex
	clock Clock
	pub   events.Publisher

	groups       map[int]*group
	conns        map[string]connection
	displayConn  map[int]string
	displayGroup map[int]int
}

type connection struct {
	displayID   int
	connectedAt time.Time
}

type group struct {
	id              int
	name            string
	members         []int
	conductorID     *int
	conductorConnID *string
	ref             model.PlaybackRef
	scheduleID      *int
	state           model.PlaybackState
	position        float64
	startedAt       *time.Time
	updatedAt       time.Time
}

// GroupState is the externally visible view of one runtime group.
type GroupState struct {
	ID              int                 `json:"id"`
	Name            string              `json:"name"`
	Members         []int               `json:"members"`
	ConductorID     *int                `json:"conductor_id"`
	State           model.PlaybackState `json:"playback_state"`
	PositionSeconds float64             `json:"position_seconds"`
	CurrentTime     float64             `json:"current_time"`
	ScheduleID      *int                `json:"schedule_id,omitempty"`
	model.PlaybackRef
	UpdatedAt time.Time `json:"updated_at"`
}

// ConductorChange is the payload of the sync:conductor-changed event.
type ConductorChange struct {
	GroupID        int    `json:"group_id"`
	OldConductorID *int   `json:"old_conductor_id"`
	NewConductorID *int   `json:"new_conductor_id"`
	Reason         string `json:"reason"`
}

// Conductor change reasons.
const (
	ReasonElected  = "elected"
	ReasonFailover = "failover"
	ReasonManual   = "manual"
)

// NewRuntimeStore builds an empty store. A nil clock means wall time.
func NewRuntimeStore(pub events.Publisher, clock Clock) *RuntimeStore {
	if clock == nil {
		clock = RealClock{}
	}
	return &RuntimeStore{
		clock:        clock,
		pub:          pub,
		groups:       make(map[int]*group),
		conns:        make(map[string]connection),
		displayConn:  make(map[int]string),
		displayGroup: make(map[int]int),
	}
}

// CreateGroup registers a runtime group from its persisted configuration.
// Members already belonging to another group are rejected; a display is in
// at most one group at a time.
func (s *RuntimeStore) CreateGroup(cfg model.SyncGroupConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[cfg.ID]; ok {
		return fmt.Errorf("sync group %d already registered", cfg.ID)
	}
	for _, id := range cfg.MemberIDs {
		if gid, ok := s.displayGroup[id]; ok {
			return fmt.Errorf("%w: display %d is in group %d", ErrAlreadyGrouped, id, gid)
		}
	}

	g := &group{
		id:         cfg.ID,
		name:       cfg.Name,
		members:    append([]int(nil), cfg.MemberIDs...),
		ref:        model.PlaybackRef{ContentID: cfg.ContentID, PlaylistID: cfg.PlaylistID},
		scheduleID: cfg.ScheduleID,
		state:      model.StateStopped,
		updatedAt:  s.clock.Now(),
	}
	s.groups[cfg.ID] = g
	for _, id := range cfg.MemberIDs {
		s.displayGroup[id] = cfg.ID
	}
	s.electInitialLocked(g)
	return nil
}

// DeleteGroup tears a group down, unbinding every member.
func (s *RuntimeStore) DeleteGroup(groupID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	for _, id := range g.members {
		delete(s.displayGroup, id)
	}
	delete(s.groups, groupID)
	return nil
}

// UpdateMembers replaces a group's membership. Removing the conductor
// triggers failover election among the survivors.
func (s *RuntimeStore) UpdateMembers(groupID int, members []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	for _, id := range members {
		if gid, ok := s.displayGroup[id]; ok && gid != groupID {
			return fmt.Errorf("%w: display %d is in group %d", ErrAlreadyGrouped, id, gid)
		}
	}

	for _, id := range g.members {
		delete(s.displayGroup, id)
	}
	g.members = append([]int(nil), members...)
	for _, id := range members {
		s.displayGroup[id] = groupID
	}

	if g.conductorID != nil && !contains(members, *g.conductorID) {
		s.electFailoverLocked(g)
	} else if g.conductorID == nil {
		s.electInitialLocked(g)
	}
	s.touchAndBroadcastLocked(g)
	return nil
}

// DisplayConnected binds a transport connection to a display. If the display
// is a member of a conductor-less group, an initial election runs.
func (s *RuntimeStore) DisplayConnected(connID string, displayID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conns[connID] = connection{displayID: displayID, connectedAt: s.clock.Now()}
	s.displayConn[displayID] = connID
	log.Info().Str("conn", connID).Int("display_id", displayID).Msg("display connected")

	if gid, ok := s.displayGroup[displayID]; ok {
		if g, ok := s.groups[gid]; ok && g.conductorID == nil {
			s.electInitialLocked(g)
		}
	}
}

// DisplayDisconnected tears down a connection binding. Losing the conductor
// connection triggers failover.
func (s *RuntimeStore) DisplayDisconnected(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.conns[connID]
	if !ok {
		log.Debug().Str("conn", connID).Msg("disconnect for unknown connection, ignoring")
		return
	}
	delete(s.conns, connID)
	if s.displayConn[conn.displayID] == connID {
		delete(s.displayConn, conn.displayID)
	}
	log.Info().Str("conn", connID).Int("display_id", conn.displayID).Msg("display disconnected")

	gid, ok := s.displayGroup[conn.displayID]
	if !ok {
		return
	}
	g, ok := s.groups[gid]
	if !ok {
		return
	}
	if g.conductorConnID != nil && *g.conductorConnID == connID {
		s.electFailoverLocked(g)
	}
}

// JoinGroup adds a connected display to a group at runtime. Stale group ids
// surface as ErrGroupNotFound; callers log and drop the request.
func (s *RuntimeStore) JoinGroup(connID string, groupID, displayID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	if gid, ok := s.displayGroup[displayID]; ok && gid != groupID {
		return fmt.Errorf("%w: display %d is in group %d", ErrAlreadyGrouped, displayID, gid)
	}
	if !contains(g.members, displayID) {
		g.members = append(g.members, displayID)
	}
	s.displayGroup[displayID] = groupID
	if g.conductorID == nil {
		s.electInitialLocked(g)
	}
	s.touchAndBroadcastLocked(g)
	return nil
}

// LeaveGroup removes a display from its group. Conductor departure triggers
// failover among the remaining members.
func (s *RuntimeStore) LeaveGroup(connID string, groupID, displayID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	if gid, ok := s.displayGroup[displayID]; !ok || gid != groupID {
		return ErrNotInGroup
	}
	g.members = remove(g.members, displayID)
	delete(s.displayGroup, displayID)

	if g.conductorID != nil && *g.conductorID == displayID {
		s.electFailoverLocked(g)
	}
	s.touchAndBroadcastLocked(g)
	return nil
}

// Start puts a group into Playing with the given content and position.
func (s *RuntimeStore) Start(groupID int, ref model.PlaybackRef, position float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	now := s.clock.Now()
	g.ref = ref
	g.position = position
	g.startedAt = &now
	g.state = model.StatePlaying
	s.touchAndBroadcastLocked(g)
	return nil
}

// Pause freezes playback at the current position.
func (s *RuntimeStore) Pause(groupID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	if g.state != model.StatePlaying {
		return fmt.Errorf("%w: pause from %s", ErrBadTransition, g.state)
	}
	s.pauseLocked(g)
	s.touchAndBroadcastLocked(g)
	return nil
}

// Resume continues playback from the frozen position.
func (s *RuntimeStore) Resume(groupID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	if g.state != model.StatePaused {
		return fmt.Errorf("%w: resume from %s", ErrBadTransition, g.state)
	}
	now := s.clock.Now()
	g.startedAt = &now
	g.state = model.StatePlaying
	s.touchAndBroadcastLocked(g)
	return nil
}

// Seek jumps to a new position, keeping the current transport state.
func (s *RuntimeStore) Seek(groupID int, position float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	if g.state == model.StateStopped {
		return fmt.Errorf("%w: seek while stopped", ErrBadTransition)
	}
	g.position = position
	if g.state == model.StatePlaying {
		now := s.clock.Now()
		g.startedAt = &now
	}
	s.touchAndBroadcastLocked(g)
	return nil
}

// Stop halts playback and resets the position to zero.
func (s *RuntimeStore) Stop(groupID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	g.state = model.StateStopped
	g.position = 0
	g.startedAt = nil
	s.touchAndBroadcastLocked(g)
	return nil
}

// SetConductor manually promotes a member. The member must be connected.
func (s *RuntimeStore) SetConductor(groupID, displayID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	if !contains(g.members, displayID) {
		return ErrNotInGroup
	}
	connID, ok := s.displayConn[displayID]
	if !ok {
		return fmt.Errorf("display %d has no live connection", displayID)
	}
	s.promoteLocked(g, displayID, connID, ReasonManual)
	return nil
}

// CurrentTime returns the group's logical playback position: frozen while
// paused or stopped, advancing with wall time while playing.
func (s *RuntimeStore) CurrentTime(groupID int) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[groupID]
	if !ok {
		return 0, ErrGroupNotFound
	}
	return s.currentTimeLocked(g), nil
}

// Snapshot returns the externally visible state of one group.
func (s *RuntimeStore) Snapshot(groupID int) (GroupState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[groupID]
	if !ok {
		return GroupState{}, ErrGroupNotFound
	}
	return s.snapshotLocked(g), nil
}

// ListGroups returns a snapshot of every runtime group.
func (s *RuntimeStore) ListGroups() []GroupState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]GroupState, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, s.snapshotLocked(g))
	}
	return out
}

// SnapshotForDisplay gives the resolver the minimal view of the display's
// group, if it has one.
func (s *RuntimeStore) SnapshotForDisplay(displayID int) (model.GroupSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gid, ok := s.displayGroup[displayID]
	if !ok {
		return model.GroupSnapshot{}, false
	}
	g, ok := s.groups[gid]
	if !ok {
		return model.GroupSnapshot{}, false
	}
	return model.GroupSnapshot{
		GroupID:    g.id,
		State:      g.state,
		Ref:        g.ref,
		ScheduleID: g.scheduleID,
	}, true
}

// internal helpers, caller holds the lock

func (s *RuntimeStore) currentTimeLocked(g *group) float64 {
	if g.state == model.StatePlaying && g.startedAt != nil {
		return g.position + s.clock.Now().Sub(*g.startedAt).Seconds()
	}
	return g.position
}

func (s *RuntimeStore) pauseLocked(g *group) {
	g.position = s.currentTimeLocked(g)
	g.startedAt = nil
	g.state = model.StatePaused
}

func (s *RuntimeStore) snapshotLocked(g *group) GroupState {
	return GroupState{
		ID:              g.id,
		Name:            g.name,
		Members:         append([]int(nil), g.members...),
		ConductorID:     g.conductorID,
		State:           g.state,
		PositionSeconds: g.position,
		CurrentTime:     s.currentTimeLocked(g),
		ScheduleID:      g.scheduleID,
		PlaybackRef:     g.ref,
		UpdatedAt:       g.updatedAt,
	}
}

func (s *RuntimeStore) touchAndBroadcastLocked(g *group) {
	g.updatedAt = s.clock.Now()
	s.publish(events.GroupRoom(g.id), events.EventGroupUpdated, s.snapshotLocked(g))
}

func (s *RuntimeStore) publish(room, event string, payload any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(room, event, payload); err != nil {
		log.Error().Err(err).Str("room", room).Str("event", event).Msg("event publish failed")
	}
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

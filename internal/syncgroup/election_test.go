package syncgroup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crxwnd/signage-sub000/internal/events"
	"github.com/crxwnd/signage-sub000/internal/model"
)

func conductorChanges(rec *events.Recorder) []ConductorChange {
	var out []ConductorChange
	for _, e := range rec.ByEvent(events.EventConductorChanged) {
		out = append(out, e.Payload.(ConductorChange))
	}
	return out
}

func TestInitialElectionFollowsMembershipOrder(t *testing.T) {
	s, rec, _ := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "lobby", MemberIDs: []int{10, 11, 12}}))

	// Display 11 connects first, but once 10 is up the membership order
	// still decides only when the seat is empty: 11 keeps it.
	s.DisplayConnected("c-11", 11)
	s.DisplayConnected("c-10", 10)

	state, err := s.Snapshot(1)
	require.NoError(t, err)
	require.NotNil(t, state.ConductorID)
	assert.Equal(t, 11, *state.ConductorID)

	changes := conductorChanges(rec)
	require.Len(t, changes, 1)
	assert.Equal(t, ReasonElected, changes[0].Reason)
	assert.Nil(t, changes[0].OldConductorID)
}

func TestInitialElectionPrefersEarlierMemberWhenBothConnected(t *testing.T) {
	s, _, _ := newTestStore()

	// Members connect before the group exists; creation elects the first
	// member in membership order, not connection order.
	s.DisplayConnected("c-12", 12)
	s.DisplayConnected("c-10", 10)
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "lobby", MemberIDs: []int{10, 11, 12}}))

	state, err := s.Snapshot(1)
	require.NoError(t, err)
	require.NotNil(t, state.ConductorID)
	assert.Equal(t, 10, *state.ConductorID)
}

func TestFailoverPromotesOldestConnection(t *testing.T) {
	s, rec, clock := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "lobby", MemberIDs: []int{10, 11, 12}}))

	// A connects first and becomes conductor; C connects before B, so on
	// A's disconnect the oldest-remaining connection (C) must win even
	// though B precedes C in membership order.
	s.DisplayConnected("c-10", 10)
	clock.Advance(time.Second)
	s.DisplayConnected("c-12", 12)
	clock.Advance(time.Second)
	s.DisplayConnected("c-11", 11)

	s.DisplayDisconnected("c-10")

	state, err := s.Snapshot(1)
	require.NoError(t, err)
	require.NotNil(t, state.ConductorID)
	assert.Equal(t, 12, *state.ConductorID)

	var failovers []ConductorChange
	for _, c := range conductorChanges(rec) {
		if c.Reason == ReasonFailover {
			failovers = append(failovers, c)
		}
	}
	require.Len(t, failovers, 1, "exactly one failover event")
	require.NotNil(t, failovers[0].OldConductorID)
	assert.Equal(t, 10, *failovers[0].OldConductorID)
	require.NotNil(t, failovers[0].NewConductorID)
	assert.Equal(t, 12, *failovers[0].NewConductorID)
}

func TestNoSurvivorPausesPlayback(t *testing.T) {
	s, rec, clock := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "lobby", MemberIDs: []int{10, 11}}))

	s.DisplayConnected("c-10", 10)
	require.NoError(t, s.Start(1, model.PlaybackRef{ContentID: intptr(3)}, 30))
	clock.Advance(5 * time.Second)

	s.DisplayDisconnected("c-10")

	state, err := s.Snapshot(1)
	require.NoError(t, err)
	assert.Nil(t, state.ConductorID)
	assert.Equal(t, model.StatePaused, state.State, "forced to paused, never stopped")
	assert.InDelta(t, 35.0, state.PositionSeconds, 0.001, "position preserved at the freeze point")

	changes := conductorChanges(rec)
	last := changes[len(changes)-1]
	assert.Equal(t, ReasonFailover, last.Reason)
	assert.Nil(t, last.NewConductorID)
}

func TestRemovingConductorFromMembersFailsOver(t *testing.T) {
	s, _, clock := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "lobby", MemberIDs: []int{10, 11}}))

	s.DisplayConnected("c-10", 10)
	clock.Advance(time.Second)
	s.DisplayConnected("c-11", 11)

	require.NoError(t, s.UpdateMembers(1, []int{11}))

	state, err := s.Snapshot(1)
	require.NoError(t, err)
	require.NotNil(t, state.ConductorID)
	assert.Equal(t, 11, *state.ConductorID)
}

func TestManualPromotion(t *testing.T) {
	s, rec, _ := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "lobby", MemberIDs: []int{10, 11}}))

	s.DisplayConnected("c-10", 10)
	s.DisplayConnected("c-11", 11)
	require.NoError(t, s.SetConductor(1, 11))

	state, err := s.Snapshot(1)
	require.NoError(t, err)
	require.NotNil(t, state.ConductorID)
	assert.Equal(t, 11, *state.ConductorID)

	changes := conductorChanges(rec)
	assert.Equal(t, ReasonManual, changes[len(changes)-1].Reason)

	// Promoting a disconnected member is refused.
	assert.Error(t, s.SetConductor(1, 12))
}

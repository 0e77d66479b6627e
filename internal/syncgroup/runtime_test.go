package syncgroup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crxwnd/signage-sub000/internal/events"
	"github.com/crxwnd/signage-sub000/internal/model"
)

func newTestStore() (*RuntimeStore, *events.Recorder, *MockClock) {
	rec := events.NewRecorder()
	clock := &MockClock{Current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewRuntimeStore(rec, clock), rec, clock
}

func intptr(v int) *int { return &v }

func TestPlaybackClock(t *testing.T) {
	s, _, clock := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "lobby", MemberIDs: []int{10, 11}}))

	require.NoError(t, s.Start(1, model.PlaybackRef{ContentID: intptr(3)}, 10))

	clock.Advance(5 * time.Second)
	pos, err := s.CurrentTime(1)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, pos, 0.001)

	require.NoError(t, s.Pause(1))
	frozen, err := s.CurrentTime(1)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, frozen, 0.001)

	// Time passing while paused must not move the position.
	clock.Advance(30 * time.Second)
	again, err := s.CurrentTime(1)
	require.NoError(t, err)
	assert.Equal(t, frozen, again)

	require.NoError(t, s.Resume(1))
	clock.Advance(2 * time.Second)
	pos, err = s.CurrentTime(1)
	require.NoError(t, err)
	assert.InDelta(t, 17.0, pos, 0.001)
}

func TestSeekKeepsState(t *testing.T) {
	s, _, clock := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "bar", MemberIDs: []int{10}}))
	require.NoError(t, s.Start(1, model.PlaybackRef{PlaylistID: intptr(4)}, 0))

	require.NoError(t, s.Seek(1, 120))
	state, err := s.Snapshot(1)
	require.NoError(t, err)
	assert.Equal(t, model.StatePlaying, state.State)

	clock.Advance(time.Second)
	pos, err := s.CurrentTime(1)
	require.NoError(t, err)
	assert.InDelta(t, 121.0, pos, 0.001)

	require.NoError(t, s.Pause(1))
	require.NoError(t, s.Seek(1, 60))
	state, err = s.Snapshot(1)
	require.NoError(t, err)
	assert.Equal(t, model.StatePaused, state.State)
	assert.InDelta(t, 60.0, state.PositionSeconds, 0.001)
}

func TestStopResetsPosition(t *testing.T) {
	s, _, _ := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "pool", MemberIDs: []int{10}}))
	require.NoError(t, s.Start(1, model.PlaybackRef{ContentID: intptr(3)}, 42))

	require.NoError(t, s.Stop(1))
	state, err := s.Snapshot(1)
	require.NoError(t, err)
	assert.Equal(t, model.StateStopped, state.State)
	assert.Zero(t, state.PositionSeconds)
}

func TestBadTransitions(t *testing.T) {
	s, _, _ := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "gym", MemberIDs: []int{10}}))

	assert.ErrorIs(t, s.Pause(1), ErrBadTransition)
	assert.ErrorIs(t, s.Resume(1), ErrBadTransition)
	assert.ErrorIs(t, s.Seek(1, 5), ErrBadTransition)
	assert.ErrorIs(t, s.Start(99, model.PlaybackRef{}, 0), ErrGroupNotFound)
}

func TestDisplayInOneGroupAtATime(t *testing.T) {
	s, _, _ := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "a", MemberIDs: []int{10}}))

	err := s.CreateGroup(model.SyncGroupConfig{ID: 2, Name: "b", MemberIDs: []int{10}})
	assert.ErrorIs(t, err, ErrAlreadyGrouped)

	s.DisplayConnected("c-10", 10)
	assert.ErrorIs(t, s.JoinGroup("c-10", 2, 10), ErrGroupNotFound)

	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 3, Name: "c"}))
	assert.ErrorIs(t, s.JoinGroup("c-10", 3, 10), ErrAlreadyGrouped)
}

func TestJoinAndLeave(t *testing.T) {
	s, _, _ := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "lobby"}))

	s.DisplayConnected("c-10", 10)
	require.NoError(t, s.JoinGroup("c-10", 1, 10))

	snap, ok := s.SnapshotForDisplay(10)
	require.True(t, ok)
	assert.Equal(t, 1, snap.GroupID)

	require.NoError(t, s.LeaveGroup("c-10", 1, 10))
	_, ok = s.SnapshotForDisplay(10)
	assert.False(t, ok)

	assert.ErrorIs(t, s.LeaveGroup("c-10", 1, 10), ErrNotInGroup)
}

func TestGroupUpdatedBroadcast(t *testing.T) {
	s, rec, _ := newTestStore()
	require.NoError(t, s.CreateGroup(model.SyncGroupConfig{ID: 1, Name: "lobby", MemberIDs: []int{10}}))
	require.NoError(t, s.Start(1, model.PlaybackRef{ContentID: intptr(3)}, 0))

	updates := rec.ByEvent(events.EventGroupUpdated)
	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	assert.Equal(t, events.GroupRoom(1), last.Room)

	state, ok := last.Payload.(GroupState)
	require.True(t, ok)
	assert.Equal(t, model.StatePlaying, state.State)
}

package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func apply(s State, ts ...transition) State {
	for _, t := range ts {
		s = t(s)
	}
	return s
}

func TestFetchTransitions(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := apply(State{}, fetchStarted())
	assert.True(t, s.Loading)

	s = apply(s, snapshotApplied(at, false))
	assert.False(t, s.Loading)
	assert.Equal(t, at, s.SyncedAt)

	s = apply(s, fetchStarted(), fetchFailed("offline", true))
	assert.Equal(t, MsgUsingCache, s.Notice)
	assert.Empty(t, s.Error)
	assert.True(t, s.FromCache)

	s = apply(s, fetchFailed("unreachable", false))
	assert.Empty(t, s.Notice)
	assert.Equal(t, "unreachable", s.Error)
	assert.Equal(t, at, s.SyncedAt)
}

func TestMutationTransitions(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := apply(State{}, mutationFailed("nope"))
	assert.Equal(t, "nope", s.Error)

	s = apply(s, mutationSucceeded("Project created.", at))
	assert.Empty(t, s.Error)
	assert.Equal(t, "Project created.", s.View(at.Add(2999*time.Millisecond)).Success)
	assert.Empty(t, s.View(at.Add(SuccessVisibleFor)).Success)

	s = apply(s, mutationFailed("again"), errorDismissed())
	assert.Empty(t, s.Error)
	assert.Empty(t, s.Success)
}

func TestSuccessfulQueryClearsFetchError(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := apply(State{}, fetchStarted(), fetchFailed("unreachable", false))
	assert.Equal(t, "unreachable", s.Error)

	s = apply(s, fetchStarted(), snapshotApplied(at, true))
	assert.Equal(t, "unreachable", s.Error)

	s = apply(s, fetchStarted(), snapshotApplied(at, false))
	assert.Empty(t, s.Error)
	assert.Equal(t, at, s.SyncedAt)
}

func TestSuccessfulQueryKeepsMutationError(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := apply(State{}, fetchFailed("unreachable", false), mutationFailed("Title is required."))
	s = apply(s, fetchStarted(), snapshotApplied(at, false))
	assert.Equal(t, "Title is required.", s.Error)
}

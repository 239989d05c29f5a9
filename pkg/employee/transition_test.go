package employee

import (
	"testing"
	"time"

	"github.com/timestudy/timestudy/pkg/timelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func TestEmployee_Apply(t *testing.T) {
	t.Run("start from idle opens a run", func(t *testing.T) {
		e, err := Employee{Id: 1, Status: StatusIdle, Elapsed: time.Hour}.Apply(timelog.EventStart, t0)

		require.NoError(t, err)
		assert.Equal(t, StatusActive, e.Status)
		require.NotNil(t, e.StartTime)
		assert.Equal(t, t0, *e.StartTime)
		assert.Nil(t, e.LastPausedAt)
		assert.Equal(t, time.Hour, e.Elapsed)
	})

	t.Run("pause closes the run into elapsed", func(t *testing.T) {
		started := t0
		e, err := Employee{Id: 1, Status: StatusActive, StartTime: &started}.Apply(timelog.EventPause, t0.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, StatusPaused, e.Status)
		assert.Equal(t, time.Hour, e.Elapsed)
		assert.Nil(t, e.StartTime)
		require.NotNil(t, e.LastPausedAt)
		assert.Equal(t, t0.Add(time.Hour), *e.LastPausedAt)
	})

	t.Run("resume closes the pause into paused accumulator", func(t *testing.T) {
		paused := t0
		e, err := Employee{Id: 1, Status: StatusPaused, Elapsed: time.Hour, LastPausedAt: &paused}.
			Apply(timelog.EventStart, t0.Add(10*time.Minute))

		require.NoError(t, err)
		assert.Equal(t, StatusActive, e.Status)
		assert.Equal(t, time.Hour, e.Elapsed)
		assert.Equal(t, 10*time.Minute, e.PausedAccum)
		assert.Nil(t, e.LastPausedAt)
	})

	t.Run("stop from paused closes the pause", func(t *testing.T) {
		paused := t0
		e, err := Employee{Id: 1, Status: StatusPaused, LastPausedAt: &paused}.Apply(timelog.EventStop, t0.Add(5*time.Minute))

		require.NoError(t, err)
		assert.Equal(t, StatusIdle, e.Status)
		assert.Equal(t, 5*time.Minute, e.PausedAccum)
	})

	t.Run("delete closes the open run and marks the employee", func(t *testing.T) {
		started := t0
		e, err := Employee{Id: 1, Status: StatusActive, StartTime: &started}.Apply(timelog.EventDeleted, t0.Add(30*time.Minute))

		require.NoError(t, err)
		assert.True(t, e.Deleted)
		assert.Equal(t, StatusIdle, e.Status)
		assert.Equal(t, 30*time.Minute, e.Elapsed)
	})

	t.Run("a live projection before and after a transition agree", func(t *testing.T) {
		started := t0
		before := Employee{Id: 1, Status: StatusActive, Elapsed: time.Minute, StartTime: &started}
		at := t0.Add(42 * time.Minute)

		after, err := before.Apply(timelog.EventPause, at)

		require.NoError(t, err)
		assert.Equal(t, before.LiveTime(at), after.LiveTime(at))
	})
}

func TestEmployee_ApplyRejectsInvalidTransitions(t *testing.T) {
	started := t0
	tests := []struct {
		name     string
		employee Employee
		event    timelog.EventType
		wantErr  error
	}{
		{"start while active", Employee{Status: StatusActive, StartTime: &started}, timelog.EventStart, ErrInvalidTransition},
		{"pause while idle", Employee{Status: StatusIdle}, timelog.EventPause, ErrInvalidTransition},
		{"pause while paused", Employee{Status: StatusPaused, LastPausedAt: &started}, timelog.EventPause, ErrInvalidTransition},
		{"stop while idle", Employee{Status: StatusIdle}, timelog.EventStop, ErrInvalidTransition},
		{"unknown event", Employee{Status: StatusIdle}, timelog.EventType("lunch"), ErrInvalidTransition},
		{"any event on a deleted employee", Employee{Status: StatusIdle, Deleted: true}, timelog.EventStart, ErrEmployeeNotFound},
		{"delete twice", Employee{Status: StatusIdle, Deleted: true}, timelog.EventDeleted, ErrEmployeeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unchanged, err := tt.employee.Apply(tt.event, t0)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.employee, unchanged)
			assert.False(t, tt.employee.CanApply(tt.event))
		})
	}
}

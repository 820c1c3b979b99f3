package service

import (
	"testing"
	"time"

	"github.com/mnhoang/placement-api/config"
	"github.com/mnhoang/placement-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimerPolicy(graceSeconds int) TimerPolicy {
	cfg := &config.Config{}
	cfg.Session.GraceSeconds = graceSeconds
	return NewTimerPolicy(cfg)
}

func TestTimerExpiry(t *testing.T) {
	policy := newTestTimerPolicy(300)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	session := &model.Session{StartedAt: start, Status: model.SessionStatusActive}

	t.Run("timed exam", func(t *testing.T) {
		exam := &model.Exam{TimerMinutes: 10}
		expiry := policy.TimerExpiry(session, exam)
		require.NotNil(t, expiry)
		assert.Equal(t, start.Add(10*time.Minute), *expiry)
	})

	t.Run("untimed exam never expires", func(t *testing.T) {
		exam := &model.Exam{TimerMinutes: 0}
		assert.Nil(t, policy.TimerExpiry(session, exam))
		assert.False(t, policy.IsTimerExpired(session, exam, start.Add(100*time.Hour)))
	})
}

func TestCanAcceptAnswersGraceBoundary(t *testing.T) {
	policy := newTestTimerPolicy(300)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	exam := &model.Exam{TimerMinutes: 10}
	session := &model.Session{StartedAt: start, Status: model.SessionStatusActive}

	cases := []struct {
		name   string
		at     time.Duration
		accept bool
	}{
		{"well before expiry", 5 * time.Minute, true},
		{"at expiry instant", 10 * time.Minute, true},
		{"just after expiry, inside grace", 10*time.Minute + time.Second, true},
		{"last second of grace", 14*time.Minute + 59*time.Second, true},
		{"past grace", 15*time.Minute + time.Second, false},
		{"long past grace", time.Hour, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := policy.CanAcceptAnswers(session, exam, start.Add(tc.at))
			assert.Equal(t, tc.accept, got)
		})
	}
}

func TestCanAcceptAnswersCompletedSessions(t *testing.T) {
	policy := newTestTimerPolicy(300)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	completedAt := start.Add(11 * time.Minute)
	completed := &model.Session{
		StartedAt:   start,
		Status:      model.SessionStatusCompleted,
		CompletedAt: &completedAt,
	}

	t.Run("untimed completed rejects", func(t *testing.T) {
		exam := &model.Exam{TimerMinutes: 0}
		assert.False(t, policy.CanAcceptAnswers(completed, exam, start.Add(time.Minute)))
	})

	t.Run("timed completed before expiry rejects", func(t *testing.T) {
		exam := &model.Exam{TimerMinutes: 60}
		assert.False(t, policy.CanAcceptAnswers(completed, exam, start.Add(12*time.Minute)))
	})

	// Grace admission is anchored to timer expiry, so a late in-flight answer
	// save is still accepted after a background auto-completion wrote
	// completed_at.
	t.Run("timed completed inside grace accepts", func(t *testing.T) {
		exam := &model.Exam{TimerMinutes: 10}
		assert.True(t, policy.CanAcceptAnswers(completed, exam, start.Add(12*time.Minute)))
	})

	t.Run("timed completed past grace rejects", func(t *testing.T) {
		exam := &model.Exam{TimerMinutes: 10}
		assert.False(t, policy.CanAcceptAnswers(completed, exam, start.Add(16*time.Minute)))
	})
}

func TestIsInGracePeriod(t *testing.T) {
	policy := newTestTimerPolicy(300)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	session := &model.Session{StartedAt: start, Status: model.SessionStatusActive}

	t.Run("untimed never in grace", func(t *testing.T) {
		assert.False(t, policy.IsInGracePeriod(session, &model.Exam{TimerMinutes: 0}, start.Add(time.Hour)))
	})

	t.Run("before expiry not in grace", func(t *testing.T) {
		assert.False(t, policy.IsInGracePeriod(session, &model.Exam{TimerMinutes: 10}, start.Add(9*time.Minute)))
	})

	t.Run("inside grace", func(t *testing.T) {
		assert.True(t, policy.IsInGracePeriod(session, &model.Exam{TimerMinutes: 10}, start.Add(13*time.Minute)))
	})
}

func TestRemainingSeconds(t *testing.T) {
	policy := newTestTimerPolicy(300)
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	session := &model.Session{StartedAt: start, Status: model.SessionStatusActive}
	exam := &model.Exam{TimerMinutes: 10}

	remaining := policy.RemainingSeconds(session, exam, start.Add(4*time.Minute))
	require.NotNil(t, remaining)
	assert.Equal(t, 360, *remaining)

	clamped := policy.RemainingSeconds(session, exam, start.Add(20*time.Minute))
	require.NotNil(t, clamped)
	assert.Equal(t, 0, *clamped)

	assert.Nil(t, policy.RemainingSeconds(session, &model.Exam{TimerMinutes: 0}, start))
}

package service

import (
	"time"

	"github.com/mnhoang/placement-api/config"
	"github.com/mnhoang/placement-api/internal/model"
)

// TimerPolicy decides when a session stops accepting answers. All methods are
// pure in (exam.TimerMinutes, session.StartedAt, session.Status, now); the
// caller must pass a fresh "now" on every submission, inside the same
// transaction as the write, so the admission decision is never stale.
type TimerPolicy interface {
	TimerExpiry(session *model.Session, exam *model.Exam) *time.Time
	IsTimerExpired(session *model.Session, exam *model.Exam, now time.Time) bool
	IsInGracePeriod(session *model.Session, exam *model.Exam, now time.Time) bool
	CanAcceptAnswers(session *model.Session, exam *model.Exam, now time.Time) bool
	RemainingSeconds(session *model.Session, exam *model.Exam, now time.Time) *int
}

type timerPolicy struct {
	grace time.Duration
}

func NewTimerPolicy(cfg *config.Config) TimerPolicy {
	grace := time.Duration(cfg.Session.GraceSeconds) * time.Second
	if grace <= 0 {
		grace = 5 * time.Minute
	}
	return &timerPolicy{grace: grace}
}

// TimerExpiry returns when the session's timer runs out, or nil for untimed
// exams, which never expire.
func (p *timerPolicy) TimerExpiry(session *model.Session, exam *model.Exam) *time.Time {
	if exam.TimerMinutes <= 0 {
		return nil
	}
	expiry := session.StartedAt.Add(time.Duration(exam.TimerMinutes) * time.Minute)
	return &expiry
}

func (p *timerPolicy) IsTimerExpired(session *model.Session, exam *model.Exam, now time.Time) bool {
	expiry := p.TimerExpiry(session, exam)
	return expiry != nil && now.After(*expiry)
}

// IsInGracePeriod is anchored to the timer expiry instant, not to the
// completion timestamp. A background auto-completion write and a late
// in-flight answer save must not race on wall-clock ordering of completion.
func (p *timerPolicy) IsInGracePeriod(session *model.Session, exam *model.Exam, now time.Time) bool {
	expiry := p.TimerExpiry(session, exam)
	if expiry == nil {
		return false
	}
	if !now.After(*expiry) {
		return false
	}
	return now.Sub(*expiry) <= p.grace
}

// CanAcceptAnswers implements the admission rule: timed sessions accept
// answers until expiry while active, then only within the grace window
// (completed or not); untimed sessions accept answers until completed.
func (p *timerPolicy) CanAcceptAnswers(session *model.Session, exam *model.Exam, now time.Time) bool {
	if exam.TimerMinutes <= 0 {
		return !session.IsCompleted()
	}
	if !p.IsTimerExpired(session, exam, now) {
		return !session.IsCompleted()
	}
	return p.IsInGracePeriod(session, exam, now)
}

// RemainingSeconds reports seconds left on the timer, clamped at zero. Nil for
// untimed exams.
func (p *timerPolicy) RemainingSeconds(session *model.Session, exam *model.Exam, now time.Time) *int {
	expiry := p.TimerExpiry(session, exam)
	if expiry == nil {
		return nil
	}
	remaining := int(expiry.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

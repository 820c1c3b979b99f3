package service

import "errors"

// Sentinel errors forming the user-facing taxonomy. Controllers map these to
// HTTP statuses with errors.Is; infrastructure errors are wrapped and
// propagated unchanged.
var (
	ErrExamNotFound     = errors.New("exam not found or inactive")
	ErrLevelNotFound    = errors.New("curriculum level not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoActiveExam     = errors.New("no active exam available for curriculum level")
	ErrSessionClosed    = errors.New("session no longer accepts changes")
	ErrAlreadyCompleted = errors.New("session already completed")
	ErrUnknownQuestion  = errors.New("question does not belong to the session's exam")
	ErrInvalidAnswer    = errors.New("answer value does not match the question type")
	ErrInvalidDelta     = errors.New("difficulty delta must be -1 or +1")
)

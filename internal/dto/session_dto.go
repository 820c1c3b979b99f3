package dto

import "time"

// CreateSessionDTO starts a placement session. ExamID is optional: when only
// LevelID is given the service picks a random active exam for that level.
type CreateSessionDTO struct {
	ExamID  *uint `json:"exam_id"`
	LevelID uint  `json:"level_id" binding:"required"`
	UserID  *uint `json:"user_id"`
}

// SubmitAnswerDTO carries one answer value. Checkbox answers are
// comma-separated tokens, mixed answers a JSON object of part name to value.
type SubmitAnswerDTO struct {
	Value string `json:"value"`
}

type AdjustDifficultyDTO struct {
	Delta int `json:"delta" binding:"required,oneof=-1 1"`
}

type AnswerResultDTO struct {
	ID           uint   `json:"id"`
	QuestionID   uint   `json:"question_id"`
	Value        string `json:"value"`
	IsCorrect    *bool  `json:"is_correct,omitempty"`
	PointsEarned int    `json:"points_earned"`
	AIFeedback   string `json:"ai_feedback,omitempty"`
}

// SessionDTO is the read-only projection served to polling and results pages.
type SessionDTO struct {
	ID                        uint              `json:"id"`
	ExamID                    uint              `json:"exam_id"`
	ExamTitle                 string            `json:"exam_title,omitempty"`
	UserID                    *uint             `json:"user_id,omitempty"`
	Status                    string            `json:"status"`
	// State refines Status with the timer: "active", "grace_period" or "completed".
	State                     string            `json:"state"`
	StartedAt                 time.Time         `json:"started_at"`
	CompletedAt               *time.Time        `json:"completed_at,omitempty"`
	TimeSpentSeconds          *int              `json:"time_spent_seconds,omitempty"`
	RemainingSeconds          *int              `json:"remaining_seconds,omitempty"`
	OriginalCurriculumLevelID uint              `json:"original_curriculum_level_id"`
	FinalCurriculumLevelID    uint              `json:"final_curriculum_level_id"`
	DifficultyAdjustments     int               `json:"difficulty_adjustments"`
	Score                     *int              `json:"score,omitempty"`
	PercentageScore           *float64          `json:"percentage_score,omitempty"`
	Answers                   []AnswerResultDTO `json:"answers,omitempty"`
}

type ScoreSummaryDTO struct {
	SessionID                uint    `json:"session_id"`
	TotalScore               int     `json:"total_score"`
	TotalPossible            int     `json:"total_possible"`
	PercentageScore          float64 `json:"percentage_score"`
	TimeSpentSeconds         int     `json:"time_spent_seconds"`
	ManualGradingQuestionIDs []uint  `json:"manual_grading_question_ids,omitempty"`
}

// AdjustmentResultDTO reports a difficulty adjustment. Adjusted=false means
// the session already sits at the extreme difficulty; the session is untouched
// and this is not an error.
type AdjustmentResultDTO struct {
	Adjusted bool        `json:"adjusted"`
	Message  string      `json:"message,omitempty"`
	Session  *SessionDTO `json:"session,omitempty"`
}

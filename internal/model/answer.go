package model

import (
	"time"

	"gorm.io/gorm"
)

// Answer is unique per (SessionID, QuestionID). One blank row is created per
// question at session creation and after every difficulty adjustment.
type Answer struct {
	ID         uint     `gorm:"primarykey" json:"id"`
	SessionID  uint     `json:"session_id" gorm:"not null;uniqueIndex:idx_answers_session_question"`
	QuestionID uint     `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_session_question"`
	Question   Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	// Value is the serialized AnswerValue (see service.AnswerValue). Empty
	// until the student submits something for the question.
	Value string `json:"value" gorm:"type:text"`
	// IsCorrect is nil while ungraded and for answers that need manual grading.
	IsCorrect    *bool          `json:"is_correct,omitempty"`
	PointsEarned int            `json:"points_earned" gorm:"not null;default:0"`
	AIFeedback   string         `json:"ai_feedback,omitempty" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

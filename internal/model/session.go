package model

import (
	"time"

	"gorm.io/gorm"
)

// Session statuses. Status is the source of truth for lifecycle decisions;
// CompletedAt is kept as an audit timestamp only.
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

type Session struct {
	ID     uint  `gorm:"primarykey" json:"id"`
	ExamID uint  `json:"exam_id" gorm:"not null;index"`
	Exam   Exam  `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	UserID *uint `json:"user_id,omitempty" gorm:"index"`
	// StartedAt is reset on every difficulty adjustment, restarting the timer.
	StartedAt                 time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt               *time.Time `json:"completed_at,omitempty"`
	TimeSpentSeconds          *int       `json:"time_spent_seconds,omitempty"`
	OriginalCurriculumLevelID uint       `json:"original_curriculum_level_id" gorm:"not null"`
	FinalCurriculumLevelID    uint       `json:"final_curriculum_level_id" gorm:"not null"`
	DifficultyAdjustments     int        `json:"difficulty_adjustments" gorm:"not null;default:0"`
	Score                     *int       `json:"score,omitempty"`
	PercentageScore           *float64   `json:"percentage_score,omitempty"`
	Status                    string     `json:"status" gorm:"not null;default:'active'"`
	Answers                   []Answer   `json:"answers,omitempty" gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
	DeletedAt                 gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Session) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Question types supported by the grading engine.
const (
	QuestionTypeMCQ      = "mcq"
	QuestionTypeCheckbox = "checkbox"
	QuestionTypeShort    = "short"
	QuestionTypeLong     = "long"
	QuestionTypeMixed    = "mixed"
)

type Question struct {
	ID     uint `gorm:"primarykey" json:"id"`
	ExamID uint `json:"exam_id" gorm:"not null;index"`
	// Number is the 1-based position of the question within its exam.
	Number int    `json:"number" gorm:"not null"`
	Prompt string `json:"prompt" gorm:"type:text;not null"`
	Type   string `json:"type" gorm:"not null"`
	// CorrectAnswer encoding depends on Type: a single token for mcq, a
	// comma-separated set for checkbox, pipe-separated alternatives for short.
	// Empty for long/mixed (and for short questions graded manually).
	CorrectAnswer string         `json:"correct_answer,omitempty" gorm:"type:text"`
	Points        int            `json:"points" gorm:"not null"`
	AudioURL      *string        `json:"audio_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

type Exam struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	Title             string         `json:"title" gorm:"not null"`
	CurriculumLevelID uint           `json:"curriculum_level_id" gorm:"not null;index"`
	// TimerMinutes of 0 means the exam is untimed.
	TimerMinutes   int            `json:"timer_minutes" gorm:"not null;default:0"`
	TotalQuestions int            `json:"total_questions" gorm:"not null"`
	Active         bool           `json:"active" gorm:"not null;default:true"`
	Questions      []Question     `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Difficulty ranks live in [MinDifficultyRank, MaxDifficultyRank].
const (
	MinDifficultyRank = 1
	MaxDifficultyRank = 44
)

type CurriculumLevel struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `json:"name" gorm:"not null"`
	// DifficultyRank orders levels for the adaptive search. Nil means the level
	// has no rank and the ordering-key fallback applies.
	DifficultyRank *int `json:"difficulty_rank,omitempty" gorm:"index"`
	// OrderingKey provides the total order used when DifficultyRank is absent.
	OrderingKey int            `json:"ordering_key" gorm:"not null;index"`
	Exams       []Exam         `json:"exams,omitempty" gorm:"foreignKey:CurriculumLevelID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

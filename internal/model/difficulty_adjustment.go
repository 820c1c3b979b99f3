package model

import "time"

// DifficultyAdjustment is an append-only audit record; one row per successful
// adjustment. Never updated or deleted, so no gorm.DeletedAt here.
type DifficultyAdjustment struct {
	ID          uint `gorm:"primarykey" json:"id"`
	SessionID   uint `json:"session_id" gorm:"not null;index"`
	FromLevelID uint `json:"from_level_id" gorm:"not null"`
	ToLevelID   uint `json:"to_level_id" gorm:"not null"`
	// Delta is +1 (harder) or -1 (easier).
	Delta     int       `json:"delta" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

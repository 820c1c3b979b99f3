package repository

import (
	"github.com/mnhoang/placement-api/internal/model"
	"gorm.io/gorm"
)

// AdjustmentRepository holds the append-only difficulty adjustment audit log.
type AdjustmentRepository interface {
	Create(record *model.DifficultyAdjustment) error
	FindBySession(sessionID uint) ([]model.DifficultyAdjustment, error)
	CountBySession(sessionID uint) (int64, error)
}

type adjustmentRepository struct {
	db *gorm.DB
}

func NewAdjustmentRepository(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

func (r *adjustmentRepository) Create(record *model.DifficultyAdjustment) error {
	return r.db.Create(record).Error
}

func (r *adjustmentRepository) FindBySession(sessionID uint) ([]model.DifficultyAdjustment, error) {
	var records []model.DifficultyAdjustment
	err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&records).Error
	return records, err
}

func (r *adjustmentRepository) CountBySession(sessionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.DifficultyAdjustment{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count, err
}

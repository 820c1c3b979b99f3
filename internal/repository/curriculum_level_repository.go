package repository

import (
	"github.com/mnhoang/placement-api/internal/model"
	"gorm.io/gorm"
)

// CurriculumLevelRepository is the curriculum level graph. Read-only from the
// session core's perspective.
type CurriculumLevelRepository interface {
	Create(level *model.CurriculumLevel) error
	FindByID(id uint) (*model.CurriculumLevel, error)
	FindByRank(rank int) ([]model.CurriculumLevel, error)
	FindAllOrdered() ([]model.CurriculumLevel, error)
}

type curriculumLevelRepository struct {
	db *gorm.DB
}

func NewCurriculumLevelRepository(db *gorm.DB) CurriculumLevelRepository {
	return &curriculumLevelRepository{db: db}
}

func (r *curriculumLevelRepository) Create(level *model.CurriculumLevel) error {
	return r.db.Create(level).Error
}

func (r *curriculumLevelRepository) FindByID(id uint) (*model.CurriculumLevel, error) {
	var level model.CurriculumLevel
	err := r.db.First(&level, id).Error
	return &level, err
}

func (r *curriculumLevelRepository) FindByRank(rank int) ([]model.CurriculumLevel, error) {
	var levels []model.CurriculumLevel
	err := r.db.Where("difficulty_rank = ?", rank).Order("id ASC").Find(&levels).Error
	return levels, err
}

// FindAllOrdered returns every level sorted by ordering key. This is the total
// order the fallback difficulty search walks when a level carries no rank.
func (r *curriculumLevelRepository) FindAllOrdered() ([]model.CurriculumLevel, error) {
	var levels []model.CurriculumLevel
	err := r.db.Order("ordering_key ASC").Find(&levels).Error
	return levels, err
}

package repository

import (
	"github.com/mnhoang/placement-api/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.Session) error
	Update(session *model.Session) error
	FindByID(id uint) (*model.Session, error)
	FindByIDWithExam(id uint) (*model.Session, error)
	FindByIDWithDetails(id uint) (*model.Session, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.Session) error {
	// GORM creates the associated blank answers when session.Answers is populated.
	return r.db.Create(session).Error
}

func (r *sessionRepository) Update(session *model.Session) error {
	return r.db.Save(session).Error
}

func (r *sessionRepository) FindByID(id uint) (*model.Session, error) {
	var session model.Session
	err := r.db.First(&session, id).Error
	return &session, err
}

func (r *sessionRepository) FindByIDWithExam(id uint) (*model.Session, error) {
	var session model.Session
	err := r.db.
		Preload("Exam.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.number ASC")
		}).
		First(&session, id).Error
	return &session, err
}

func (r *sessionRepository) FindByIDWithDetails(id uint) (*model.Session, error) {
	var session model.Session
	err := r.db.
		Preload("Exam.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.number ASC")
		}).
		Preload("Answers.Question").
		First(&session, id).Error
	return &session, err
}

package repository

import (
	"github.com/mnhoang/placement-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	// Upsert writes the answer's value for its (session, question) pair.
	// Resubmissions overwrite in place; a row is never duplicated. Grading
	// state is reset so a resubmitted answer is graded fresh at completion.
	Upsert(answer *model.Answer) error
	Update(answer *model.Answer) error
	FindBySessionAndQuestion(sessionID, questionID uint) (*model.Answer, error)
	FindBySession(sessionID uint) ([]model.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Upsert(answer *model.Answer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":         answer.Value,
			"is_correct":    nil,
			"points_earned": 0,
		}),
	}).Create(answer).Error
}

func (r *answerRepository) Update(answer *model.Answer) error {
	return r.db.Save(answer).Error
}

func (r *answerRepository) FindBySessionAndQuestion(sessionID, questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&answer).Error
	return &answer, err
}

func (r *answerRepository) FindBySession(sessionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("session_id = ?", sessionID).Find(&answers).Error
	return answers, err
}

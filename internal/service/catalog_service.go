package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/mnhoang/placement-api/internal/dto"
	"github.com/mnhoang/placement-api/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogService serves the user-facing exam catalog views. Answer keys are
// stripped from everything it returns.
type CatalogService interface {
	GetAllExams() ([]dto.ExamSummaryDTO, error)
	GetExamDetails(examID uint) (*dto.ExamDTO, error)
}

type catalogService struct {
	examRepo repository.ExamRepository
}

func NewCatalogService(examRepo repository.ExamRepository) CatalogService {
	return &catalogService{examRepo: examRepo}
}

func (s *catalogService) GetAllExams() ([]dto.ExamSummaryDTO, error) {
	examsWithCount, err := s.examRepo.FindAllWithQuestionCount()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list exams with question count")
		return nil, fmt.Errorf("error fetching exams: %w", err)
	}

	var dtos []dto.ExamSummaryDTO
	for _, ewc := range examsWithCount {
		dtos = append(dtos, dto.ExamSummaryDTO{
			ID:                ewc.Exam.ID,
			Title:             ewc.Exam.Title,
			CurriculumLevelID: ewc.Exam.CurriculumLevelID,
			TimerMinutes:      ewc.Exam.TimerMinutes,
			QuestionCount:     ewc.QuestionCount,
			Active:            ewc.Exam.Active,
			CreatedAt:         ewc.Exam.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *catalogService) GetExamDetails(examID uint) (*dto.ExamDTO, error) {
	exam, err := s.examRepo.FindByIDWithQuestions(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		log.Error().Err(err).Uint("examID", examID).Msg("Failed to load exam details")
		return nil, fmt.Errorf("error fetching exam %d: %w", examID, err)
	}

	var resp dto.ExamDTO
	if err := copier.Copy(&resp, exam); err != nil {
		log.Error().Err(err).Msg("Failed to copy Exam model to ExamDTO")
		return nil, fmt.Errorf("error preparing exam details response: %w", err)
	}
	return &resp, nil
}

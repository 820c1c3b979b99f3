package service

import (
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/mnhoang/placement-api/internal/dto"
	"github.com/mnhoang/placement-api/internal/model"
	"github.com/mnhoang/placement-api/internal/repository"
	"github.com/rs/zerolog/log"
)

// AdminCatalogService authors the exam catalog and curriculum level graph the
// session core consumes.
type AdminCatalogService interface {
	CreateExam(req dto.ExamCreateDTO) (*dto.ExamDTO, error)
	CreateLevel(req dto.LevelCreateDTO) (*dto.LevelResponseDTO, error)
}

type adminCatalogService struct {
	examRepo  repository.ExamRepository
	levelRepo repository.CurriculumLevelRepository
}

func NewAdminCatalogService(
	examRepo repository.ExamRepository,
	levelRepo repository.CurriculumLevelRepository,
) AdminCatalogService {
	return &adminCatalogService{examRepo: examRepo, levelRepo: levelRepo}
}

func (s *adminCatalogService) CreateExam(req dto.ExamCreateDTO) (*dto.ExamDTO, error) {
	if _, err := s.levelRepo.FindByID(req.CurriculumLevelID); err != nil {
		return nil, fmt.Errorf("curriculum level %d not found: %w", req.CurriculumLevelID, err)
	}

	numberSeen := make(map[int]bool)
	questions := make([]model.Question, 0, len(req.Questions))
	for _, qDto := range req.Questions {
		if numberSeen[qDto.Number] {
			return nil, fmt.Errorf("duplicate question number %d", qDto.Number)
		}
		numberSeen[qDto.Number] = true
		if qDto.Number > len(req.Questions) {
			return nil, fmt.Errorf("question number %d exceeds question count %d", qDto.Number, len(req.Questions))
		}

		switch qDto.Type {
		case model.QuestionTypeMCQ, model.QuestionTypeCheckbox:
			if strings.TrimSpace(qDto.CorrectAnswer) == "" {
				return nil, fmt.Errorf("question %d of type %q requires a correct answer", qDto.Number, qDto.Type)
			}
		case model.QuestionTypeLong, model.QuestionTypeMixed:
			if strings.TrimSpace(qDto.CorrectAnswer) != "" {
				return nil, fmt.Errorf("question %d of type %q cannot carry an answer key", qDto.Number, qDto.Type)
			}
		}

		var questionModel model.Question
		copier.Copy(&questionModel, &qDto)
		questions = append(questions, questionModel)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	examModel := model.Exam{
		Title:             req.Title,
		CurriculumLevelID: req.CurriculumLevelID,
		TimerMinutes:      req.TimerMinutes,
		TotalQuestions:    len(questions),
		Active:            active,
		Questions:         questions,
	}

	if err := s.examRepo.Create(&examModel); err != nil {
		log.Error().Err(err).Msg("Failed to create exam in database")
		return nil, fmt.Errorf("database error creating exam: %w", err)
	}

	created, err := s.examRepo.FindByIDWithQuestions(examModel.ID)
	if err != nil {
		log.Error().Err(err).Uint("examID", examModel.ID).Msg("Failed to reload newly created exam")
		var fallback dto.ExamDTO
		copier.Copy(&fallback, &examModel)
		return &fallback, nil
	}

	var resp dto.ExamDTO
	if err := copier.Copy(&resp, created); err != nil {
		return nil, fmt.Errorf("error preparing exam response: %w", err)
	}
	return &resp, nil
}

func (s *adminCatalogService) CreateLevel(req dto.LevelCreateDTO) (*dto.LevelResponseDTO, error) {
	if req.DifficultyRank != nil {
		if *req.DifficultyRank < model.MinDifficultyRank || *req.DifficultyRank > model.MaxDifficultyRank {
			return nil, fmt.Errorf("difficulty rank %d outside [%d,%d]", *req.DifficultyRank, model.MinDifficultyRank, model.MaxDifficultyRank)
		}
	}

	level := model.CurriculumLevel{
		Name:           req.Name,
		DifficultyRank: req.DifficultyRank,
		OrderingKey:    req.OrderingKey,
	}
	if err := s.levelRepo.Create(&level); err != nil {
		log.Error().Err(err).Msg("Failed to create curriculum level")
		return nil, fmt.Errorf("database error creating curriculum level: %w", err)
	}

	var resp dto.LevelResponseDTO
	if err := copier.Copy(&resp, &level); err != nil {
		return nil, fmt.Errorf("error preparing level response: %w", err)
	}
	return &resp, nil
}

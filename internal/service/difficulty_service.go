package service

import (
	"fmt"

	"github.com/mnhoang/placement-api/internal/model"
	"github.com/mnhoang/placement-api/internal/repository"
	"github.com/rs/zerolog/log"
)

// maxRankSearchAttempts bounds the rank walk so the search always terminates
// even on sparse rank ranges.
const maxRankSearchAttempts = 10

// AlternateExam is the outcome of a difficulty search. Found is false when the
// student is already at the extreme difficulty; that is a result, not an error.
type AlternateExam struct {
	Found bool
	Level *model.CurriculumLevel
	Exam  *model.Exam
}

// DifficultyService searches the curriculum level graph for an alternate-tier
// exam and picks exams for levels at initial placement.
type DifficultyService interface {
	FindAlternate(current *model.CurriculumLevel, delta int) (*AlternateExam, error)
	FindExamForLevel(level *model.CurriculumLevel) (*model.Exam, error)
}

type difficultyService struct {
	examRepo  repository.ExamRepository
	levelRepo repository.CurriculumLevelRepository
	rand      Randomizer
}

func NewDifficultyService(
	examRepo repository.ExamRepository,
	levelRepo repository.CurriculumLevelRepository,
	rand Randomizer,
) DifficultyService {
	return &difficultyService{examRepo: examRepo, levelRepo: levelRepo, rand: rand}
}

// FindAlternate walks ranks one step at a time in the requested direction,
// skipping ranks that have no level or no live exam, until it either finds an
// exam-bearing rank or runs off the rank range. Levels without a rank fall
// back to a single step along the ordering-key total order.
func (s *difficultyService) FindAlternate(current *model.CurriculumLevel, delta int) (*AlternateExam, error) {
	if delta != 1 && delta != -1 {
		return nil, ErrInvalidDelta
	}
	if current.DifficultyRank == nil {
		return s.findAlternateByOrdering(current, delta)
	}

	base := *current.DifficultyRank
	for attempt := 1; attempt <= maxRankSearchAttempts; attempt++ {
		target := base + delta*attempt
		if target > model.MaxDifficultyRank || target < model.MinDifficultyRank {
			log.Info().Uint("levelID", current.ID).Int("target", target).Msg("Difficulty search reached rank boundary")
			return &AlternateExam{Found: false}, nil
		}

		levels, err := s.levelRepo.FindByRank(target)
		if err != nil {
			return nil, fmt.Errorf("error loading levels at rank %d: %w", target, err)
		}

		var candidates []examCandidate
		for i := range levels {
			if levels[i].ID == current.ID {
				continue
			}
			exams, err := s.examRepo.FindActiveByLevel(levels[i].ID)
			if err != nil {
				return nil, fmt.Errorf("error loading exams for level %d: %w", levels[i].ID, err)
			}
			for j := range exams {
				candidates = append(candidates, examCandidate{level: &levels[i], exam: &exams[j]})
			}
		}

		// A rank occupied only by examless levels is treated the same as an
		// empty rank: keep walking.
		if len(candidates) == 0 {
			continue
		}

		chosen := candidates[s.rand.Intn(len(candidates))]
		log.Info().
			Uint("fromLevelID", current.ID).
			Uint("toLevelID", chosen.level.ID).
			Uint("examID", chosen.exam.ID).
			Int("delta", delta).
			Int("rank", target).
			Msg("Difficulty search found alternate exam")
		return &AlternateExam{Found: true, Level: chosen.level, Exam: chosen.exam}, nil
	}

	log.Info().Uint("levelID", current.ID).Int("delta", delta).Msg("Difficulty search exhausted attempts")
	return &AlternateExam{Found: false}, nil
}

type examCandidate struct {
	level *model.CurriculumLevel
	exam  *model.Exam
}

// findAlternateByOrdering moves exactly one position along the total order.
// Unlike the rank path it does not retry past an examless neighbor; that
// asymmetry is intentional and documented behavior.
func (s *difficultyService) findAlternateByOrdering(current *model.CurriculumLevel, delta int) (*AlternateExam, error) {
	levels, err := s.levelRepo.FindAllOrdered()
	if err != nil {
		return nil, fmt.Errorf("error loading ordered levels: %w", err)
	}

	idx := -1
	for i := range levels {
		if levels[i].ID == current.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrLevelNotFound
	}

	target := idx + delta
	if target < 0 || target >= len(levels) {
		return &AlternateExam{Found: false}, nil
	}

	candidate := &levels[target]
	exams, err := s.examRepo.FindActiveByLevel(candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading exams for level %d: %w", candidate.ID, err)
	}
	if len(exams) == 0 {
		return &AlternateExam{Found: false}, nil
	}

	exam := &exams[s.rand.Intn(len(exams))]
	return &AlternateExam{Found: true, Level: candidate, Exam: exam}, nil
}

// FindExamForLevel picks uniformly at random among the level's active exams.
// Random selection spreads students across equivalent exam variants.
func (s *difficultyService) FindExamForLevel(level *model.CurriculumLevel) (*model.Exam, error) {
	exams, err := s.examRepo.FindActiveByLevel(level.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading exams for level %d: %w", level.ID, err)
	}
	if len(exams) == 0 {
		return nil, ErrNoActiveExam
	}
	return &exams[s.rand.Intn(len(exams))], nil
}

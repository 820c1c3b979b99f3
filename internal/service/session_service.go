package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/mnhoang/placement-api/internal/dto"
	"github.com/mnhoang/placement-api/internal/model"
	"github.com/mnhoang/placement-api/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionService orchestrates the adaptive session lifecycle: creation, answer
// admission, completion and difficulty changes. It is the only component that
// mutates session state; completion and adjustment run inside a transaction so
// their multi-record writes are never observed partially applied.
type SessionService interface {
	CreateSession(req dto.CreateSessionDTO) (*dto.SessionDTO, error)
	SubmitAnswer(sessionID, questionID uint, req dto.SubmitAnswerDTO) (*dto.AnswerResultDTO, error)
	CompleteSession(sessionID uint) (*dto.ScoreSummaryDTO, error)
	AdjustDifficulty(sessionID uint, delta int) (*dto.AdjustmentResultDTO, error)
	GetSessionState(sessionID uint) (*dto.SessionDTO, error)
}

type sessionService struct {
	sessionRepo    repository.SessionRepository
	answerRepo     repository.AnswerRepository
	adjustmentRepo repository.AdjustmentRepository
	examRepo       repository.ExamRepository
	levelRepo      repository.CurriculumLevelRepository
	timerPolicy    TimerPolicy
	grading        GradingService
	difficulty     DifficultyService
	feedback       FeedbackService
	clock          Clock
	db             *gorm.DB
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	answerRepo repository.AnswerRepository,
	adjustmentRepo repository.AdjustmentRepository,
	examRepo repository.ExamRepository,
	levelRepo repository.CurriculumLevelRepository,
	timerPolicy TimerPolicy,
	grading GradingService,
	difficulty DifficultyService,
	feedback FeedbackService,
	clock Clock,
	db *gorm.DB,
) SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		answerRepo:     answerRepo,
		adjustmentRepo: adjustmentRepo,
		examRepo:       examRepo,
		levelRepo:      levelRepo,
		timerPolicy:    timerPolicy,
		grading:        grading,
		difficulty:     difficulty,
		feedback:       feedback,
		clock:          clock,
		db:             db,
	}
}

// CreateSession looks up the exam, seeds one blank answer per question and
// records the placement level as both the original and final level.
func (s *sessionService) CreateSession(req dto.CreateSessionDTO) (*dto.SessionDTO, error) {
	level, err := s.levelRepo.FindByID(req.LevelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("error loading curriculum level %d: %w", req.LevelID, err)
	}

	var exam *model.Exam
	if req.ExamID != nil {
		exam, err = s.examRepo.FindByIDWithQuestions(*req.ExamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrExamNotFound
			}
			return nil, fmt.Errorf("error loading exam %d: %w", *req.ExamID, err)
		}
		if !exam.Active {
			return nil, ErrExamNotFound
		}
	} else {
		picked, pickErr := s.difficulty.FindExamForLevel(level)
		if pickErr != nil {
			return nil, pickErr
		}
		exam, err = s.examRepo.FindByIDWithQuestions(picked.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading exam %d: %w", picked.ID, err)
		}
	}
	if len(exam.Questions) == 0 {
		return nil, fmt.Errorf("exam %d has no questions, cannot start a session", exam.ID)
	}

	now := s.clock.Now()
	session := model.Session{
		ExamID:                    exam.ID,
		UserID:                    req.UserID,
		StartedAt:                 now,
		OriginalCurriculumLevelID: level.ID,
		FinalCurriculumLevelID:    level.ID,
		Status:                    model.SessionStatusActive,
		Answers:                   blankAnswersFor(exam.Questions),
	}

	if err := s.sessionRepo.Create(&session); err != nil {
		log.Error().Err(err).Uint("examID", exam.ID).Msg("CreateSession: failed to create session record")
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	log.Info().Uint("sessionID", session.ID).Uint("examID", exam.ID).Uint("levelID", level.ID).Msg("Session created")
	session.Exam = *exam
	return s.buildSessionDTO(&session, now), nil
}

// SubmitAnswer upserts one answer after re-checking timer admission with a
// fresh "now" inside the write transaction. Resubmission overwrites in place.
func (s *sessionService) SubmitAnswer(sessionID, questionID uint, req dto.SubmitAnswerDTO) (*dto.AnswerResultDTO, error) {
	session, err := s.sessionRepo.FindByIDWithExam(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error loading session %d: %w", sessionID, err)
	}

	var question *model.Question
	for i := range session.Exam.Questions {
		if session.Exam.Questions[i].ID == questionID {
			question = &session.Exam.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, ErrUnknownQuestion
	}

	value, err := ParseAnswerValue(question.Type, req.Value)
	if err != nil {
		return nil, err
	}
	encoded, err := value.Encode()
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// The admission check and the write share the transaction; "now" and
		// the session row are read fresh so the decision cannot be stale
		// across requests.
		var fresh model.Session
		if err := tx.First(&fresh, sessionID).Error; err != nil {
			return fmt.Errorf("error reloading session %d: %w", sessionID, err)
		}
		now := s.clock.Now()
		if !s.timerPolicy.CanAcceptAnswers(&fresh, &session.Exam, now) {
			return ErrSessionClosed
		}

		answer := model.Answer{
			SessionID:  sessionID,
			QuestionID: questionID,
			Value:      encoded,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":         encoded,
				"is_correct":    nil,
				"points_earned": 0,
			}),
		}).Create(&answer).Error
	})
	if err != nil {
		if errors.Is(err, ErrSessionClosed) {
			return nil, ErrSessionClosed
		}
		log.Error().Err(err).Uint("sessionID", sessionID).Uint("questionID", questionID).Msg("SubmitAnswer: upsert failed")
		return nil, fmt.Errorf("error saving answer: %w", err)
	}

	stored, err := s.answerRepo.FindBySessionAndQuestion(sessionID, questionID)
	if err != nil {
		return nil, fmt.Errorf("error reloading answer: %w", err)
	}

	var resp dto.AnswerResultDTO
	if err := copier.Copy(&resp, stored); err != nil {
		return nil, fmt.Errorf("error preparing answer response: %w", err)
	}
	return &resp, nil
}

// CompleteSession grades every answer, aggregates the score and closes the
// session. Calling it on a completed session returns the existing summary
// together with ErrAlreadyCompleted so callers can treat the retry as success.
func (s *sessionService) CompleteSession(sessionID uint) (*dto.ScoreSummaryDTO, error) {
	var summary *dto.ScoreSummaryDTO
	var feedbackTargets []model.Answer
	var feedbackQuestions map[uint]model.Question

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session model.Session
		if err := tx.
			Preload("Exam.Questions").
			Preload("Answers").
			First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("error loading session %d: %w", sessionID, err)
		}

		if session.IsCompleted() {
			summary = existingSummary(&session)
			return ErrAlreadyCompleted
		}

		result := s.grading.GradeSession(session.Exam.Questions, session.Answers)
		for i := range session.Answers {
			if err := tx.Save(&session.Answers[i]).Error; err != nil {
				return fmt.Errorf("error saving graded answer %d: %w", session.Answers[i].ID, err)
			}
		}

		now := s.clock.Now()
		timeSpent := int(now.Sub(session.StartedAt).Seconds())
		score := result.TotalScore
		percentage := result.PercentageScore

		if err := tx.Model(&model.Session{}).
			Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"status":             model.SessionStatusCompleted,
				"completed_at":       now,
				"time_spent_seconds": timeSpent,
				"score":              score,
				"percentage_score":   percentage,
			}).Error; err != nil {
			return fmt.Errorf("error finalizing session %d: %w", session.ID, err)
		}

		summary = &dto.ScoreSummaryDTO{
			SessionID:                session.ID,
			TotalScore:               result.TotalScore,
			TotalPossible:            result.TotalPossible,
			PercentageScore:          result.PercentageScore,
			TimeSpentSeconds:         timeSpent,
			ManualGradingQuestionIDs: result.ManualGradingQuestionIDs,
		}

		// Collect manual-grading answers for advisory feedback outside the
		// transaction.
		feedbackQuestions = make(map[uint]model.Question, len(session.Exam.Questions))
		for _, q := range session.Exam.Questions {
			feedbackQuestions[q.ID] = q
		}
		for _, answer := range session.Answers {
			q, ok := feedbackQuestions[answer.QuestionID]
			if !ok {
				continue
			}
			if (q.Type == model.QuestionTypeLong || q.Type == model.QuestionTypeMixed) && answer.Value != "" {
				feedbackTargets = append(feedbackTargets, answer)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCompleted) {
			return summary, ErrAlreadyCompleted
		}
		return nil, err
	}

	log.Info().
		Uint("sessionID", sessionID).
		Int("totalScore", summary.TotalScore).
		Int("totalPossible", summary.TotalPossible).
		Float64("percentage", summary.PercentageScore).
		Msg("Session completed")

	if s.feedback != nil && s.feedback.Enabled() && len(feedbackTargets) > 0 {
		go s.generateAdvisoryFeedback(feedbackTargets, feedbackQuestions)
	}
	return summary, nil
}

// AdjustDifficulty re-routes the session to an alternate-tier exam. On success
// the audit record, session fields and answer reset commit atomically; when no
// alternate exists the session is untouched and the boundary is reported.
func (s *sessionService) AdjustDifficulty(sessionID uint, delta int) (*dto.AdjustmentResultDTO, error) {
	if delta != 1 && delta != -1 {
		return nil, ErrInvalidDelta
	}

	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error loading session %d: %w", sessionID, err)
	}
	if session.IsCompleted() {
		return nil, ErrSessionClosed
	}

	currentLevel, err := s.levelRepo.FindByID(session.FinalCurriculumLevelID)
	if err != nil {
		return nil, fmt.Errorf("error loading level %d: %w", session.FinalCurriculumLevelID, err)
	}

	alternate, err := s.difficulty.FindAlternate(currentLevel, delta)
	if err != nil {
		return nil, err
	}
	if !alternate.Found {
		direction := "hardest"
		if delta < 0 {
			direction = "easiest"
		}
		return &dto.AdjustmentResultDTO{
			Adjusted: false,
			Message:  fmt.Sprintf("session is already at the %s available difficulty", direction),
		}, nil
	}

	newExam, err := s.examRepo.FindByIDWithQuestions(alternate.Exam.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading exam %d: %w", alternate.Exam.ID, err)
	}

	now := s.clock.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var fresh model.Session
		if err := tx.First(&fresh, sessionID).Error; err != nil {
			return fmt.Errorf("error reloading session %d: %w", sessionID, err)
		}
		if fresh.IsCompleted() {
			return ErrSessionClosed
		}

		record := model.DifficultyAdjustment{
			SessionID:   sessionID,
			FromLevelID: fresh.FinalCurriculumLevelID,
			ToLevelID:   alternate.Level.ID,
			Delta:       delta,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("error recording difficulty adjustment: %w", err)
		}

		// Old answers are discarded outright; the unique (session, question)
		// index must be free for the new exam's blank rows.
		if err := tx.Unscoped().Where("session_id = ?", sessionID).Delete(&model.Answer{}).Error; err != nil {
			return fmt.Errorf("error clearing answers for session %d: %w", sessionID, err)
		}
		blanks := blankAnswersFor(newExam.Questions)
		for i := range blanks {
			blanks[i].SessionID = sessionID
		}
		if err := tx.Create(&blanks).Error; err != nil {
			return fmt.Errorf("error seeding answers for session %d: %w", sessionID, err)
		}

		return tx.Model(&model.Session{}).
			Where("id = ?", sessionID).
			Updates(map[string]interface{}{
				"exam_id":                   newExam.ID,
				"final_curriculum_level_id": alternate.Level.ID,
				"difficulty_adjustments":    gorm.Expr("difficulty_adjustments + 1"),
				"started_at":                now,
			}).Error
	})
	if err != nil {
		if errors.Is(err, ErrSessionClosed) {
			return nil, ErrSessionClosed
		}
		log.Error().Err(err).Uint("sessionID", sessionID).Int("delta", delta).Msg("AdjustDifficulty: transaction failed")
		return nil, err
	}

	log.Info().
		Uint("sessionID", sessionID).
		Int("delta", delta).
		Uint("toLevelID", alternate.Level.ID).
		Uint("toExamID", newExam.ID).
		Msg("Session difficulty adjusted")

	updated, err := s.sessionRepo.FindByIDWithDetails(sessionID)
	if err != nil {
		return nil, fmt.Errorf("error reloading adjusted session: %w", err)
	}
	return &dto.AdjustmentResultDTO{
		Adjusted: true,
		Session:  s.buildSessionDTO(updated, now),
	}, nil
}

// GetSessionState returns the read-only projection used by polling and
// results pages.
func (s *sessionService) GetSessionState(sessionID uint) (*dto.SessionDTO, error) {
	session, err := s.sessionRepo.FindByIDWithDetails(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error loading session %d: %w", sessionID, err)
	}
	return s.buildSessionDTO(session, s.clock.Now()), nil
}

func (s *sessionService) generateAdvisoryFeedback(answers []model.Answer, questions map[uint]model.Question) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var wg sync.WaitGroup
	for i := range answers {
		wg.Add(1)
		go func(answer model.Answer) {
			defer wg.Done()
			question := questions[answer.QuestionID]
			text, err := s.feedback.FeedbackForAnswer(ctx, &question, answer.Value)
			if err != nil {
				log.Warn().Err(err).Uint("answerID", answer.ID).Msg("Advisory feedback generation failed")
				return
			}
			answer.AIFeedback = text
			if err := s.answerRepo.Update(&answer); err != nil {
				log.Error().Err(err).Uint("answerID", answer.ID).Msg("Failed to store advisory feedback")
			}
		}(answers[i])
	}
	wg.Wait()
}

func (s *sessionService) buildSessionDTO(session *model.Session, now time.Time) *dto.SessionDTO {
	var resp dto.SessionDTO
	if err := copier.Copy(&resp, session); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("Error copying session to DTO")
	}
	if session.Exam.ID != 0 {
		resp.ExamTitle = session.Exam.Title
	}
	resp.State = s.sessionState(session, now)
	if !session.IsCompleted() {
		resp.RemainingSeconds = s.timerPolicy.RemainingSeconds(session, &session.Exam, now)
	}
	return &resp
}

func (s *sessionService) sessionState(session *model.Session, now time.Time) string {
	if session.IsCompleted() {
		return "completed"
	}
	if session.Exam.ID == 0 || session.Exam.TimerMinutes <= 0 {
		return "active"
	}
	if s.timerPolicy.IsInGracePeriod(session, &session.Exam, now) {
		return "grace_period"
	}
	if s.timerPolicy.IsTimerExpired(session, &session.Exam, now) {
		return "expired"
	}
	return "active"
}

// existingSummary rebuilds the summary of an already-completed session from
// its persisted fields, so retried completion calls are success-equivalent.
func existingSummary(session *model.Session) *dto.ScoreSummaryDTO {
	summary := &dto.ScoreSummaryDTO{SessionID: session.ID}
	if session.Score != nil {
		summary.TotalScore = *session.Score
	}
	if session.PercentageScore != nil {
		summary.PercentageScore = *session.PercentageScore
	}
	if session.TimeSpentSeconds != nil {
		summary.TimeSpentSeconds = *session.TimeSpentSeconds
	}
	questionMap := make(map[uint]model.Question, len(session.Exam.Questions))
	for _, q := range session.Exam.Questions {
		questionMap[q.ID] = q
	}
	for _, answer := range session.Answers {
		q, ok := questionMap[answer.QuestionID]
		if !ok || q.Type == model.QuestionTypeLong {
			continue
		}
		summary.TotalPossible += q.Points
		if answer.IsCorrect == nil {
			summary.ManualGradingQuestionIDs = append(summary.ManualGradingQuestionIDs, q.ID)
		}
	}
	return summary
}

func blankAnswersFor(questions []model.Question) []model.Answer {
	answers := make([]model.Answer, 0, len(questions))
	for _, q := range questions {
		answers = append(answers, model.Answer{QuestionID: q.ID})
	}
	return answers
}

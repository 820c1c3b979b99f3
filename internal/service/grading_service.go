package service

import (
	"strings"

	"github.com/mnhoang/placement-api/internal/model"
)

// ScoreSummary aggregates a graded session. Long-answer questions are wholly
// excluded from both earned and possible totals; every other indeterminate
// answer earns zero but still counts toward the possible total.
type ScoreSummary struct {
	TotalScore      int
	TotalPossible   int
	PercentageScore float64
	// ManualGradingQuestionIDs lists non-long questions whose correctness
	// could not be decided automatically. Informational; completion never
	// blocks on them.
	ManualGradingQuestionIDs []uint
}

// GradingService scores answers. GradeAnswer is pure: it returns a nil
// correctness for answers that need a human.
type GradingService interface {
	GradeAnswer(question *model.Question, value AnswerValue) (isCorrect *bool, pointsEarned int)
	GradeSession(questions []model.Question, answers []model.Answer) *ScoreSummary
}

type gradingService struct {
	caseSensitiveShort bool
}

type GradingOption func(*gradingService)

// WithCaseSensitiveShort makes short-answer comparison case-sensitive.
func WithCaseSensitiveShort(b bool) GradingOption {
	return func(g *gradingService) { g.caseSensitiveShort = b }
}

func NewGradingService(opts ...GradingOption) GradingService {
	g := &gradingService{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gradingService) GradeAnswer(question *model.Question, value AnswerValue) (*bool, int) {
	switch question.Type {
	case model.QuestionTypeMCQ:
		correct := normalizeToken(value.Single) == normalizeToken(question.CorrectAnswer)
		return &correct, awarded(correct, question.Points)

	case model.QuestionTypeCheckbox:
		correct := tokenSetsEqual(value.Set, splitTokenSet(question.CorrectAnswer))
		return &correct, awarded(correct, question.Points)

	case model.QuestionTypeShort:
		// An empty answer key means the question has no automatic key and a
		// teacher must grade it; it is never silently scored zero.
		if strings.TrimSpace(question.CorrectAnswer) == "" {
			return nil, 0
		}
		correct := g.matchesAlternative(value.Single, question.CorrectAnswer)
		return &correct, awarded(correct, question.Points)

	default:
		// Long and mixed answers are always graded by a human.
		return nil, 0
	}
}

// GradeSession grades every answer in place and aggregates the totals.
// The questions slice must be the session exam's full question list.
func (g *gradingService) GradeSession(questions []model.Question, answers []model.Answer) *ScoreSummary {
	questionMap := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		questionMap[q.ID] = q
	}

	summary := &ScoreSummary{}
	for i := range answers {
		question, ok := questionMap[answers[i].QuestionID]
		if !ok {
			continue
		}

		value := DecodeStoredAnswer(question.Type, answers[i].Value)
		isCorrect, points := g.GradeAnswer(&question, value)
		answers[i].IsCorrect = isCorrect
		answers[i].PointsEarned = points

		if question.Type == model.QuestionTypeLong {
			continue
		}
		summary.TotalPossible += question.Points
		summary.TotalScore += points
		if isCorrect == nil {
			summary.ManualGradingQuestionIDs = append(summary.ManualGradingQuestionIDs, question.ID)
		}
	}

	if summary.TotalPossible > 0 {
		summary.PercentageScore = float64(summary.TotalScore) / float64(summary.TotalPossible) * 100
	}
	return summary
}

func (g *gradingService) matchesAlternative(answer, answerKey string) bool {
	submitted := strings.TrimSpace(answer)
	if !g.caseSensitiveShort {
		submitted = strings.ToLower(submitted)
	}
	for _, alternative := range strings.Split(answerKey, "|") {
		alternative = strings.TrimSpace(alternative)
		if !g.caseSensitiveShort {
			alternative = strings.ToLower(alternative)
		}
		if submitted == alternative {
			return true
		}
	}
	return false
}

func awarded(correct bool, points int) int {
	if correct {
		return points
	}
	return 0
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func tokenSetsEqual(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[normalizeToken(t)] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[normalizeToken(t)] = struct{}{}
	}
	if len(setA) != len(setB) {
		return false
	}
	for t := range setA {
		if _, ok := setB[t]; !ok {
			return false
		}
	}
	return true
}

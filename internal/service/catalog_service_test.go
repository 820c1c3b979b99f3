package service

import (
	"testing"

	"github.com/mnhoang/placement-api/internal/dto"
	"github.com/mnhoang/placement-api/internal/model"
	"github.com/mnhoang/placement-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllExamsIncludesQuestionCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewExamRepository(db))

	level := seedLevel(t, db, "Tier 5", intPtr(5), 50)
	seedExam(t, db, level.ID, "Placement exam", 10, true, threeQuestionSet())
	seedExam(t, db, level.ID, "Short quiz", 0, false, threeQuestionSet()[:1])

	exams, err := svc.GetAllExams()
	require.NoError(t, err)
	require.Len(t, exams, 2)

	byTitle := make(map[string]dto.ExamSummaryDTO, len(exams))
	for _, e := range exams {
		byTitle[e.Title] = e
	}
	assert.Equal(t, 3, byTitle["Placement exam"].QuestionCount)
	assert.True(t, byTitle["Placement exam"].Active)
	assert.Equal(t, 1, byTitle["Short quiz"].QuestionCount)
	assert.False(t, byTitle["Short quiz"].Active)
}

func TestGetExamDetailsStripsAnswerKey(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewExamRepository(db))

	level := seedLevel(t, db, "Tier 5", intPtr(5), 50)
	exam := seedExam(t, db, level.ID, "Placement exam", 10, true, threeQuestionSet())

	details, err := svc.GetExamDetails(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, exam.ID, details.ID)
	require.Len(t, details.Questions, 3)

	// Questions come back in display order with prompts but no key fields.
	assert.Equal(t, 1, details.Questions[0].Number)
	assert.Equal(t, model.QuestionTypeMCQ, details.Questions[0].Type)
	assert.NotEmpty(t, details.Questions[0].Prompt)
}

func TestGetExamDetailsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewExamRepository(db))

	_, err := svc.GetExamDetails(9999)
	assert.ErrorIs(t, err, ErrExamNotFound)
}

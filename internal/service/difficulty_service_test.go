package service

import (
	"testing"

	"github.com/mnhoang/placement-api/internal/model"
	"github.com/mnhoang/placement-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAlternateSkipsEmptyRanks(t *testing.T) {
	db := newTestDB(t)
	svc := NewDifficultyService(
		repository.NewExamRepository(db),
		repository.NewCurriculumLevelRepository(db),
		stubRandomizer{pick: 0},
	)

	// Ranks 5, 7 and 9 are populated; rank 6 is a gap.
	base := seedLevel(t, db, "Tier 5", intPtr(5), 50)
	seven := seedLevel(t, db, "Tier 7", intPtr(7), 70)
	seedLevel(t, db, "Tier 9", intPtr(9), 90)
	seedExam(t, db, base.ID, "Tier 5 exam", 10, true, threeQuestionSet())
	targetExam := seedExam(t, db, seven.ID, "Tier 7 exam", 10, true, threeQuestionSet())

	result, err := svc.FindAlternate(base, 1)
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, seven.ID, result.Level.ID)
	assert.Equal(t, targetExam.ID, result.Exam.ID)
}

func TestFindAlternateTreatsExamlessRankAsGap(t *testing.T) {
	db := newTestDB(t)
	svc := NewDifficultyService(
		repository.NewExamRepository(db),
		repository.NewCurriculumLevelRepository(db),
		stubRandomizer{pick: 0},
	)

	base := seedLevel(t, db, "Tier 10", intPtr(10), 100)
	examless := seedLevel(t, db, "Tier 11", intPtr(11), 110)
	populated := seedLevel(t, db, "Tier 12", intPtr(12), 120)
	// Tier 11 only has an inactive exam, so the walk must pass it by.
	seedExam(t, db, examless.ID, "Retired exam", 10, false, threeQuestionSet())
	want := seedExam(t, db, populated.ID, "Tier 12 exam", 10, true, threeQuestionSet())

	result, err := svc.FindAlternate(base, 1)
	require.NoError(t, err)
	require.True(t, result.Found)
	assert.Equal(t, populated.ID, result.Level.ID)
	assert.Equal(t, want.ID, result.Exam.ID)
}

func TestFindAlternateStopsAtRankBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := NewDifficultyService(
		repository.NewExamRepository(db),
		repository.NewCurriculumLevelRepository(db),
		stubRandomizer{pick: 0},
	)

	top := seedLevel(t, db, "Top tier", intPtr(model.MaxDifficultyRank), 440)
	seedExam(t, db, top.ID, "Top exam", 10, true, threeQuestionSet())

	result, err := svc.FindAlternate(top, 1)
	require.NoError(t, err)
	assert.False(t, result.Found)

	bottom := seedLevel(t, db, "Bottom tier", intPtr(model.MinDifficultyRank), 10)
	result, err = svc.FindAlternate(bottom, -1)
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestFindAlternateGivesUpAfterMaxAttempts(t *testing.T) {
	db := newTestDB(t)
	svc := NewDifficultyService(
		repository.NewExamRepository(db),
		repository.NewCurriculumLevelRepository(db),
		stubRandomizer{pick: 0},
	)

	// The nearest harder exam sits 11 ranks up, one past the search horizon.
	base := seedLevel(t, db, "Tier 10", intPtr(10), 100)
	far := seedLevel(t, db, "Tier 21", intPtr(21), 210)
	seedExam(t, db, far.ID, "Tier 21 exam", 10, true, threeQuestionSet())

	result, err := svc.FindAlternate(base, 1)
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestFindAlternateRejectsBadDelta(t *testing.T) {
	db := newTestDB(t)
	svc := NewDifficultyService(
		repository.NewExamRepository(db),
		repository.NewCurriculumLevelRepository(db),
		stubRandomizer{pick: 0},
	)
	level := seedLevel(t, db, "Tier 5", intPtr(5), 50)

	_, err := svc.FindAlternate(level, 2)
	assert.ErrorIs(t, err, ErrInvalidDelta)
	_, err = svc.FindAlternate(level, 0)
	assert.ErrorIs(t, err, ErrInvalidDelta)
}

func TestFindAlternateOrderingFallbackSingleStep(t *testing.T) {
	db := newTestDB(t)
	svc := NewDifficultyService(
		repository.NewExamRepository(db),
		repository.NewCurriculumLevelRepository(db),
		stubRandomizer{pick: 0},
	)

	// No ranks anywhere: the search falls back to the ordering-key total order.
	first := seedLevel(t, db, "Intro", nil, 10)
	second := seedLevel(t, db, "Core", nil, 20)
	third := seedLevel(t, db, "Capstone", nil, 30)
	want := seedExam(t, db, second.ID, "Core exam", 10, true, threeQuestionSet())
	seedExam(t, db, third.ID, "Capstone exam", 10, true, threeQuestionSet())

	t.Run("steps to the immediate neighbor", func(t *testing.T) {
		result, err := svc.FindAlternate(first, 1)
		require.NoError(t, err)
		require.True(t, result.Found)
		assert.Equal(t, second.ID, result.Level.ID)
		assert.Equal(t, want.ID, result.Exam.ID)
	})

	t.Run("does not skip an examless neighbor", func(t *testing.T) {
		// "Intro" has no exam. Stepping down from "Core" fails even though
		// there is nothing further below to skip to anyway; the point is that
		// the fallback never retries past its single step.
		result, err := svc.FindAlternate(second, -1)
		require.NoError(t, err)
		assert.False(t, result.Found)
	})

	t.Run("stops at the end of the order", func(t *testing.T) {
		result, err := svc.FindAlternate(third, 1)
		require.NoError(t, err)
		assert.False(t, result.Found)
	})
}

func TestFindExamForLevel(t *testing.T) {
	db := newTestDB(t)
	examRepo := repository.NewExamRepository(db)
	levelRepo := repository.NewCurriculumLevelRepository(db)

	level := seedLevel(t, db, "Tier 5", intPtr(5), 50)
	empty := seedLevel(t, db, "Tier 6", intPtr(6), 60)
	a := seedExam(t, db, level.ID, "Variant A", 10, true, threeQuestionSet())
	b := seedExam(t, db, level.ID, "Variant B", 10, true, threeQuestionSet())
	seedExam(t, db, level.ID, "Retired", 10, false, threeQuestionSet())

	t.Run("picks among active exams", func(t *testing.T) {
		svc := NewDifficultyService(examRepo, levelRepo, NewRandomizer())
		exam, err := svc.FindExamForLevel(level)
		require.NoError(t, err)
		assert.Contains(t, []uint{a.ID, b.ID}, exam.ID)
	})

	t.Run("deterministic pick with stubbed randomness", func(t *testing.T) {
		svc := NewDifficultyService(examRepo, levelRepo, stubRandomizer{pick: 1})
		exam, err := svc.FindExamForLevel(level)
		require.NoError(t, err)
		assert.Equal(t, b.ID, exam.ID)
	})

	t.Run("level without active exams", func(t *testing.T) {
		svc := NewDifficultyService(examRepo, levelRepo, stubRandomizer{pick: 0})
		_, err := svc.FindExamForLevel(empty)
		assert.ErrorIs(t, err, ErrNoActiveExam)
	})
}

package service

import (
	"testing"
	"time"

	"github.com/mnhoang/placement-api/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.CurriculumLevel{},
		&model.Exam{},
		&model.Question{},
		&model.Session{},
		&model.Answer{},
		&model.DifficultyAdjustment{},
	))
	return db
}

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// stubRandomizer always picks the same slot, wrapped into range.
type stubRandomizer struct {
	pick int
}

func (r stubRandomizer) Intn(n int) int {
	return r.pick % n
}

func seedLevel(t *testing.T, db *gorm.DB, name string, rank *int, orderingKey int) *model.CurriculumLevel {
	t.Helper()
	level := &model.CurriculumLevel{Name: name, DifficultyRank: rank, OrderingKey: orderingKey}
	require.NoError(t, db.Create(level).Error)
	return level
}

func seedExam(t *testing.T, db *gorm.DB, levelID uint, title string, timerMinutes int, active bool, questions []model.Question) *model.Exam {
	t.Helper()
	exam := &model.Exam{
		Title:             title,
		CurriculumLevelID: levelID,
		TimerMinutes:      timerMinutes,
		TotalQuestions:    len(questions),
		Active:            active,
		Questions:         questions,
	}
	require.NoError(t, db.Create(exam).Error)
	return exam
}

func intPtr(v int) *int {
	return &v
}

// threeQuestionSet is the standard fixture: an MCQ worth 1, a checkbox worth 2
// and a long answer worth 5.
func threeQuestionSet() []model.Question {
	return []model.Question{
		{Number: 1, Prompt: "Pick B", Type: model.QuestionTypeMCQ, CorrectAnswer: "B", Points: 1},
		{Number: 2, Prompt: "Pick A and C", Type: model.QuestionTypeCheckbox, CorrectAnswer: "A,C", Points: 2},
		{Number: 3, Prompt: "Write an essay", Type: model.QuestionTypeLong, Points: 5},
	}
}

package dto

import "time"

// QuestionDTO is the user-facing view of a question. The answer key is never
// exposed here.
type QuestionDTO struct {
	ID       uint    `json:"id"`
	ExamID   uint    `json:"exam_id"`
	Number   int     `json:"number"`
	Prompt   string  `json:"prompt"`
	Type     string  `json:"type"`
	Points   int     `json:"points"`
	AudioURL *string `json:"audio_url,omitempty"`
}

type ExamDTO struct {
	ID                uint          `json:"id"`
	Title             string        `json:"title"`
	CurriculumLevelID uint          `json:"curriculum_level_id"`
	TimerMinutes      int           `json:"timer_minutes"`
	TotalQuestions    int           `json:"total_questions"`
	Questions         []QuestionDTO `json:"questions,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

type ExamSummaryDTO struct {
	ID                uint      `json:"id"`
	Title             string    `json:"title"`
	CurriculumLevelID uint      `json:"curriculum_level_id"`
	TimerMinutes      int       `json:"timer_minutes"`
	QuestionCount     int       `json:"question_count"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

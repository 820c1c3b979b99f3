package dto

// QuestionCreateDTO is used within ExamCreateDTO for admin exam authoring.
type QuestionCreateDTO struct {
	Number        int     `json:"number" binding:"required,min=1"`
	Prompt        string  `json:"prompt" binding:"required"`
	Type          string  `json:"type" binding:"required,oneof=mcq checkbox short long mixed"`
	CorrectAnswer string  `json:"correct_answer"`
	Points        int     `json:"points" binding:"required,gt=0"`
	AudioURL      *string `json:"audio_url"`
}

// ExamCreateDTO creates an exam with its full ordered question list.
type ExamCreateDTO struct {
	Title             string              `json:"title" binding:"required"`
	CurriculumLevelID uint                `json:"curriculum_level_id" binding:"required"`
	// TimerMinutes of 0 creates an untimed exam.
	TimerMinutes int                 `json:"timer_minutes" binding:"min=0"`
	Active       *bool               `json:"active"`
	Questions    []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

type LevelCreateDTO struct {
	Name           string `json:"name" binding:"required"`
	DifficultyRank *int   `json:"difficulty_rank" binding:"omitempty,min=1,max=44"`
	OrderingKey    int    `json:"ordering_key" binding:"required"`
}

type LevelResponseDTO struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	DifficultyRank *int   `json:"difficulty_rank,omitempty"`
	OrderingKey    int    `json:"ordering_key"`
}

package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mnhoang/placement-api/internal/dto"
	"github.com/mnhoang/placement-api/internal/service"
	"github.com/rs/zerolog/log"
)

type SessionController struct {
	sessionService service.SessionService
	catalogService service.CatalogService
}

func NewSessionController(sessionService service.SessionService, catalogService service.CatalogService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
		catalogService: catalogService,
	}
}

// GetAllExams godoc
// @Summary (User) List available exams
// @Description List exams in the catalog with question counts.
// @Tags User - Exams & Sessions
// @Produce json
// @Success 200 {array} dto.ExamSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams [get]
func (c *SessionController) GetAllExams(ctx *gin.Context) {
	exams, err := c.catalogService.GetAllExams()
	if err != nil {
		log.Error().Err(err).Msg("GetAllExams: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve exams", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, exams)
}

// GetExamDetails godoc
// @Summary (User) Get exam details
// @Description Full exam details including questions, without answer keys.
// @Tags User - Exams & Sessions
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.ExamDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid exam ID"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{exam_id} [get]
func (c *SessionController) GetExamDetails(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	exam, err := c.catalogService.GetExamDetails(examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve exam", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, exam)
}

// CreateSession godoc
// @Summary (User) Start a placement session
// @Description Starts a session for a given level, optionally for a specific exam. Seeds one blank answer per question.
// @Tags User - Exams & Sessions
// @Accept json
// @Produce json
// @Param session_data body dto.CreateSessionDTO true "Level, optional exam and user"
// @Success 201 {object} dto.SessionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Exam or level not found, or no active exam for level"
// @Router /sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req dto.CreateSessionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateSession: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	session, err := c.sessionService.CreateSession(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound),
			errors.Is(err, service.ErrLevelNotFound),
			errors.Is(err, service.ErrNoActiveExam):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Msg("CreateSession: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create session", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusCreated, session)
}

// SubmitAnswer godoc
// @Summary (User) Submit an answer
// @Description Upserts the answer for one question. Resubmitting overwrites the previous value. Rejected once the session stops accepting answers.
// @Tags User - Exams & Sessions
// @Accept json
// @Produce json
// @Param session_id path int true "Session ID"
// @Param question_id path int true "Question ID"
// @Param answer_data body dto.SubmitAnswerDTO true "Answer value"
// @Success 200 {object} dto.AnswerResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or unknown question"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session closed to submissions"
// @Router /sessions/{session_id}/answers/{question_id} [put]
func (c *SessionController) SubmitAnswer(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "session_id")
	if !ok {
		return
	}
	questionID, ok := parseIDParam(ctx, "question_id")
	if !ok {
		return
	}

	var req dto.SubmitAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAnswer: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	answer, err := c.sessionService.SubmitAnswer(sessionID, questionID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrUnknownQuestion), errors.Is(err, service.ErrInvalidAnswer):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrSessionClosed):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Uint("sessionID", sessionID).Msg("SubmitAnswer: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save answer", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusOK, answer)
}

// CompleteSession godoc
// @Summary (User) Complete a session
// @Description Grades all answers and closes the session. Retrying a completed session returns the existing summary.
// @Tags User - Exams & Sessions
// @Produce json
// @Param session_id path int true "Session ID"
// @Success 200 {object} dto.ScoreSummaryDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id}/complete [post]
func (c *SessionController) CompleteSession(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "session_id")
	if !ok {
		return
	}

	summary, err := c.sessionService.CompleteSession(sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyCompleted):
			// Success-equivalent: a retried completion returns the summary it
			// already produced.
			ctx.JSON(http.StatusOK, summary)
		case errors.Is(err, service.ErrSessionNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Uint("sessionID", sessionID).Msg("CompleteSession: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to complete session", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// AdjustDifficulty godoc
// @Summary (User) Adjust session difficulty
// @Description Moves the session to an easier or harder exam. Reaching the difficulty boundary returns adjusted=false, not an error.
// @Tags User - Exams & Sessions
// @Accept json
// @Produce json
// @Param session_id path int true "Session ID"
// @Param adjustment body dto.AdjustDifficultyDTO true "Delta: -1 easier, +1 harder"
// @Success 200 {object} dto.AdjustmentResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid delta"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Router /sessions/{session_id}/difficulty [post]
func (c *SessionController) AdjustDifficulty(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "session_id")
	if !ok {
		return
	}

	var req dto.AdjustDifficultyDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("AdjustDifficulty: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.sessionService.AdjustDifficulty(sessionID, req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrSessionClosed):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		case errors.Is(err, service.ErrInvalidDelta):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Uint("sessionID", sessionID).Msg("AdjustDifficulty: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to adjust difficulty", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetSessionState godoc
// @Summary (User) Get session state
// @Description Read-only projection for polling and results pages, including timer state and answers.
// @Tags User - Exams & Sessions
// @Produce json
// @Param session_id path int true "Session ID"
// @Success 200 {object} dto.SessionDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{session_id} [get]
func (c *SessionController) GetSessionState(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "session_id")
	if !ok {
		return
	}

	session, err := c.sessionService.GetSessionState(sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("GetSessionState: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve session", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, session)
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

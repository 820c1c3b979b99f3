package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mnhoang/placement-api/internal/dto"
	"github.com/mnhoang/placement-api/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminCatalogController struct {
	adminCatalogService service.AdminCatalogService
}

func NewAdminCatalogController(adminCatalogService service.AdminCatalogService) *AdminCatalogController {
	return &AdminCatalogController{adminCatalogService: adminCatalogService}
}

// CreateExam godoc
// @Summary (Admin) Create an exam
// @Description Creates an exam with its full ordered question list. TimerMinutes of 0 creates an untimed exam.
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Param exam_data body dto.ExamCreateDTO true "Exam with questions"
// @Success 201 {object} dto.ExamDTO "Exam created"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/exams [post]
func (c *AdminCatalogController) CreateExam(ctx *gin.Context) {
	var req dto.ExamCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateExam: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	exam, err := c.adminCatalogService.CreateExam(req)
	if err != nil {
		log.Error().Err(err).Msg("Admin CreateExam: service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create exam", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, exam)
}

// CreateLevel godoc
// @Summary (Admin) Create a curriculum level
// @Description Creates a curriculum level. DifficultyRank is optional and must sit in [1,44]; OrderingKey provides the fallback total order.
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Param level_data body dto.LevelCreateDTO true "Curriculum level"
// @Success 201 {object} dto.LevelResponseDTO "Level created"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/levels [post]
func (c *AdminCatalogController) CreateLevel(ctx *gin.Context) {
	var req dto.LevelCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateLevel: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	level, err := c.adminCatalogService.CreateLevel(req)
	if err != nil {
		log.Error().Err(err).Msg("Admin CreateLevel: service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create level", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, level)
}

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mnhoang/placement-api/config"
	"github.com/mnhoang/placement-api/database"
	adminctrl "github.com/mnhoang/placement-api/internal/controller/admin"
	userctrl "github.com/mnhoang/placement-api/internal/controller/user"
	"github.com/mnhoang/placement-api/internal/logger"
	"github.com/mnhoang/placement-api/internal/model"
	"github.com/mnhoang/placement-api/internal/repository"
	"github.com/mnhoang/placement-api/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Adaptive Placement Exam API
// @version 1.0
// @description API for timed, adaptive placement and review exams: session lifecycle, answer submission with grace-period admission, multi-type grading and curriculum-level difficulty adjustment.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			service.NewSystemClock,
			service.NewRandomizer,
		),

		// Repositories layer
		fx.Provide(
			repository.NewExamRepository,
			repository.NewCurriculumLevelRepository,
			repository.NewSessionRepository,
			repository.NewAnswerRepository,
			repository.NewAdjustmentRepository,
		),

		// Services layer
		fx.Provide(
			service.NewTimerPolicy,
			func() service.GradingService { return service.NewGradingService() },
			service.NewDifficultyService,
			service.NewGeminiFeedbackService,
			service.NewCatalogService,
			service.NewAdminCatalogService,
			service.NewSessionService,
		),

		// API controllers layer
		fx.Provide(
			adminctrl.NewAdminCatalogController,
			userctrl.NewSessionController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Request logging through zerolog instead of gin's default logger.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminCatalogCtrl *adminctrl.AdminCatalogController,
	sessionCtrl *userctrl.SessionController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/exams", adminCatalogCtrl.CreateExam)
		adminAPIGroup.POST("/levels", adminCatalogCtrl.CreateLevel)
	}

	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/exams", sessionCtrl.GetAllExams)
		userAPIGroup.GET("/exams/:exam_id", sessionCtrl.GetExamDetails)

		userAPIGroup.POST("/sessions", sessionCtrl.CreateSession)
		userAPIGroup.GET("/sessions/:session_id", sessionCtrl.GetSessionState)
		userAPIGroup.PUT("/sessions/:session_id/answers/:question_id", sessionCtrl.SubmitAnswer)
		userAPIGroup.POST("/sessions/:session_id/complete", sessionCtrl.CompleteSession)
		userAPIGroup.POST("/sessions/:session_id/difficulty", sessionCtrl.AdjustDifficulty)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Placement exam API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.CurriculumLevel{},
		&model.Exam{},
		&model.Question{},
		&model.Session{},
		&model.Answer{},
		&model.DifficultyAdjustment{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

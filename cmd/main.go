package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/hirelens/hirelens/config"
	"github.com/hirelens/hirelens/database"
	"github.com/hirelens/hirelens/internal/client"
	hrctrl "github.com/hirelens/hirelens/internal/controller/hr"
	publicctrl "github.com/hirelens/hirelens/internal/controller/public"
	"github.com/hirelens/hirelens/internal/logger"
	"github.com/hirelens/hirelens/internal/middleware"
	"github.com/hirelens/hirelens/internal/model"
	"github.com/hirelens/hirelens/internal/repository"
	"github.com/hirelens/hirelens/internal/service"
	"github.com/hirelens/hirelens/internal/token"
	"github.com/hirelens/hirelens/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title HireLens Interview API
// @version 1.0
// @description Video interview platform: phase-scoped applicant access, deterministic question selection and background answer analysis.
// @host localhost:8080
// @BasePath /api
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewRedisClient,
			NewAsynqClient,
			validator.New,
		),

		fx.Provide(
			repository.NewApplicantRepository,
			repository.NewJobCategoryRepository,
			repository.NewQuestionRepository,
			repository.NewInterviewRepository,
			repository.NewVideoResponseRepository,
			repository.NewAuditLogRepository,
			repository.NewProcessingQueueRepository,
		),

		fx.Provide(
			token.NewApplicantAuthenticator,
			token.NewInterviewTokenSigner,
		),

		fx.Provide(
			client.NewTranscriptionClient,
			client.NewScoringClient,
			func(c *client.TranscriptionClient) worker.Transcriber { return c },
			func(c *client.ScoringClient) worker.Scorer { return c },
			worker.NewAsynqScheduler,
			func(s *worker.AsynqScheduler) service.TaskScheduler { return s },
			worker.NewAnalysisWorker,
		),

		fx.Provide(
			service.NewProcessingService,
			service.NewInterviewService,
		),

		fx.Provide(
			publicctrl.NewAuthController,
			publicctrl.NewInterviewController,
			hrctrl.NewAdminController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(StartAnalysisWorker),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

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
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Interview-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func NewRedisClient(lc fx.Lifecycle, cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				// the API can serve reads without the queue; submissions will fail loudly
				log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis not reachable at startup")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	return rdb
}

func NewAsynqClient(lc fx.Lifecycle, cfg *config.Config) *asynq.Client {
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return asynqClient.Close()
		},
	})
	return asynqClient
}

// RegisterRoutesAndStartServer wires the HTTP surface and manages the server
// lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authn *token.ApplicantAuthenticator,
	signer *token.InterviewTokenSigner,
	authCtrl *publicctrl.AuthController,
	interviewCtrl *publicctrl.InterviewController,
	adminCtrl *hrctrl.AdminController,
) {
	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/magic-login/:token", authCtrl.MagicLogin)
		auth.POST("/qr-login/:token", authCtrl.QRLogin)
	}

	pub := api.Group("/public")
	{
		pub.POST("/interviews", middleware.ApplicantAuth(authn), interviewCtrl.CreateInterview)

		scoped := pub.Group("/interviews/:public_id", middleware.InterviewAccess(signer))
		scoped.GET("", interviewCtrl.GetInterview)
		scoped.POST("/video-response", interviewCtrl.RecordAnswer)
		scoped.POST("/submit", interviewCtrl.SubmitInterview)
		scoped.GET("/processing-status", interviewCtrl.ProcessingStatus)
	}

	hr := api.Group("/hr")
	{
		hr.POST("/applicants", adminCtrl.CreateApplicant)
		hr.POST("/applicants/:id/invite", adminCtrl.InviteApplicant)
		hr.POST("/applicants/:id/interviews/:interview_id/retake-token", adminCtrl.IssueRetakeToken)
		hr.POST("/job-categories", adminCtrl.CreateJobCategory)
		hr.POST("/questions", adminCtrl.CreateQuestion)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("HireLens API server starting on port %s", cfg.Server.Port)
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

// StartAnalysisWorker runs the asynq consumer alongside the HTTP server.
func StartAnalysisWorker(lc fx.Lifecycle, cfg *config.Config, analysisWorker *worker.AnalysisWorker) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				worker.QueueAnalysis: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(worker.TaskTypeAnalyzeInterview, analysisWorker)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting analysis worker")
			go func() {
				if err := srv.Run(mux); err != nil {
					log.Fatal().Err(err).Msg("Analysis worker failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			srv.Shutdown()
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Applicant{},
		&model.JobCategory{},
		&model.InterviewQuestion{},
		&model.Interview{},
		&model.VideoResponse{},
		&model.InterviewAuditLog{},
		&model.ProcessingQueue{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

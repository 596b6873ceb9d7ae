package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/studyhub/enemprep/config"
	"github.com/studyhub/enemprep/database"
	_ "github.com/studyhub/enemprep/docs" // Swagger docs - auto-generated
	"github.com/studyhub/enemprep/internal/controller"
	"github.com/studyhub/enemprep/internal/logger"
	"github.com/studyhub/enemprep/internal/model"
	"github.com/studyhub/enemprep/internal/repository"
	"github.com/studyhub/enemprep/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title ENEM Prep API
// @version 1.0
// @description Study platform backend: timed mock exams with scoring and review, plus spaced-repetition flash cards and decks.
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
		),

		fx.Provide(
			repository.NewExamRepository,
			repository.NewAttemptRepository,
			repository.NewFlashCardRepository,
			repository.NewDeckRepository,
		),

		fx.Provide(
			service.NewExamService,
			service.NewAttemptService,
			service.NewFlashCardService,
			service.NewDeckService,
		),

		fx.Provide(
			controller.NewExamController,
			controller.NewAttemptController,
			controller.NewFlashCardController,
			controller.NewDeckController,
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
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	examCtrl *controller.ExamController,
	attemptCtrl *controller.AttemptController,
	cardCtrl *controller.FlashCardController,
	deckCtrl *controller.DeckController,
) {
	api := router.Group("/api")
	{
		exams := api.Group("/exams")
		exams.POST("", examCtrl.CreateExam)
		exams.GET("", examCtrl.ListExams)
		exams.GET("/:exam_id", examCtrl.GetExam)
		exams.PATCH("/:exam_id", examCtrl.UpdateExam)
		exams.DELETE("/:exam_id", examCtrl.DeleteExam)

		exams.POST("/:exam_id/start", attemptCtrl.StartAttempt)
		exams.GET("/:exam_id/attempts", attemptCtrl.ListAttempts)
		exams.GET("/:exam_id/attempts/:attempt_id", attemptCtrl.GetAttempt)
		exams.POST("/:exam_id/attempts/:attempt_id/save", attemptCtrl.SaveProgress)
		exams.POST("/:exam_id/attempts/:attempt_id/submit", attemptCtrl.SubmitAttempt)

		cards := api.Group("/flashcards")
		cards.POST("", cardCtrl.CreateCard)
		cards.GET("", cardCtrl.ListCards)
		// GET /flashcards/due is served through this route, see GetCard.
		cards.GET("/:card_id", cardCtrl.GetCard)
		cards.PATCH("/:card_id", cardCtrl.UpdateCard)
		cards.DELETE("/:card_id", cardCtrl.DeleteCard)
		cards.POST("/:card_id/review", cardCtrl.ReviewCard)

		decks := api.Group("/flashcarddecks")
		decks.POST("", deckCtrl.CreateDeck)
		decks.GET("", deckCtrl.ListDecks)
		decks.GET("/:deck_id", deckCtrl.GetDeck)
		decks.PATCH("/:deck_id", deckCtrl.UpdateDeck)
		decks.DELETE("/:deck_id", deckCtrl.DeleteDeck)
		decks.POST("/:deck_id/cards", deckCtrl.AddCardToDeck)
		decks.DELETE("/:deck_id/cards/:card_id", deckCtrl.RemoveCardFromDeck)
		decks.PATCH("/:deck_id/cards/:card_id", deckCtrl.ReorderCardInDeck)

		admin := api.Group("/admin")
		admin.POST("/attempts/sweep", attemptCtrl.SweepStaleAttempts)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("ENEM Prep API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
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
		&model.Exam{},
		&model.Question{},
		&model.ExamQuestion{},
		&model.ExamAttempt{},
		&model.FlashCard{},
		&model.FlashCardDeck{},
		&model.DeckCard{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

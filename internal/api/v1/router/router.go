package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, error) {
	// 1. Open the single-file store (tables created if absent)
	db, err := repository.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Str("db_path", cfg.DBPath).Msg("Store opened")

	// 2. Resolve the summarizer API key (env or Secret Manager)
	apiKey, err := service.ResolveSummarizerAPIKey(context.Background(), cfg, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	// 3. Initialize the speech synthesizer (ambient Google credentials)
	speech, err := service.NewGoogleSpeech(context.Background())
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	// 4. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 5. Initialize repositories & services & handlers
	userRepo := repository.NewUserRepo(db)
	historyRepo := repository.NewHistoryRepo(db)

	extractor := service.NewExtractorClient(cfg.ExtractorBaseURL, time.Duration(cfg.ExtractorRequestTimeoutSec)*time.Second, logger)
	summarizer := service.NewOpenAIClient(apiKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAIMaxTokens, cfg.SummaryChunkChars, logger)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, logger)
	userSvc := service.NewUserService(userRepo, historyRepo, cfg.FreeDailyLimit)
	studySvc := service.NewStudyService(historyRepo, extractor, summarizer, speech, cfg.FreeDailyLimit, logger)

	authHandler := handler.NewAuthHandler(authSvc, validate, logger)
	userHandler := handler.NewUserHandler(userSvc, logger)
	studyHandler := handler.NewStudyHandler(studySvc, validate, cfg.MaxUploadMB, logger)

	// 6. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	// 7. Create ServeMux router with API v1 routes under /v1
	apiV1Mux := http.NewServeMux()
	authHandler.RegisterRoutes(apiV1Mux)
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	studyHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// 8. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger, c.Handler(mux)), db, nil
}

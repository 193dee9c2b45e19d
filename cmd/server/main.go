package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/0xteamMuffin/Hireability/internal/config"
	"github.com/0xteamMuffin/Hireability/internal/execution"
	"github.com/0xteamMuffin/Hireability/internal/handlers"
	"github.com/0xteamMuffin/Hireability/internal/interview"
	"github.com/0xteamMuffin/Hireability/internal/llm"
	_ "github.com/0xteamMuffin/Hireability/internal/llm/gemini"
	"github.com/0xteamMuffin/Hireability/internal/metrics"
	"github.com/0xteamMuffin/Hireability/internal/middleware"
	"github.com/0xteamMuffin/Hireability/internal/models"
	"github.com/0xteamMuffin/Hireability/internal/prompts"
	"github.com/0xteamMuffin/Hireability/internal/repositories"
	"github.com/0xteamMuffin/Hireability/internal/routers"
	"github.com/0xteamMuffin/Hireability/internal/scraper"
	"github.com/0xteamMuffin/Hireability/internal/utils"
	"github.com/0xteamMuffin/Hireability/internal/ws"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresUser, cfg.PostgresPassword,
		cfg.PostgresDB, cfg.PostgresPort, cfg.PostgresSSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Document{},
		&models.InterviewSession{},
		&models.InterviewRound{},
		&models.CodingProblem{},
		&models.Transcript{},
		&models.Analysis{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Info("Configuration loaded", zap.String("provider", cfg.Provider))

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	blacklist := utils.NewTokenBlacklist(rdb)

	userRepo := &repositories.UserRepository{DB: db}
	profileRepo := &repositories.ProfileRepository{DB: db}
	docRepo := &repositories.DocumentRepository{DB: db}
	sessionRepo := &repositories.SessionRepository{DB: db}
	roundRepo := &repositories.RoundRepository{DB: db}
	problemRepo := &repositories.ProblemRepository{DB: db}
	reportRepo := &repositories.ReportRepository{DB: db}

	// interview state core: store + persistence sidecar + realtime hub
	sidecar := interview.NewSidecar(roundRepo, cfg.PersistInterval, logger)
	store := interview.NewStore(sidecar, logger)
	hub := ws.NewHub()

	flow := &handlers.InterviewFlow{
		Store:         store,
		Hub:           hub,
		Provider:      aiProvider,
		PromptManager: promptManager,
		Runner:        execution.NewClient(cfg.ExecutionAPIURL, logger),
		Rounds:        roundRepo,
		Profiles:      profileRepo,
		Docs:          docRepo,
		Problems:      problemRepo,
		Reports:       reportRepo,
		Logger:        logger,
	}

	authHandler := handlers.NewAuthHandler(userRepo, blacklist, cfg.JWTSecret, logger)
	profileHandler := handlers.NewProfileHandler(profileRepo, logger)
	documentHandler := handlers.NewDocumentHandler(docRepo, aiProvider, promptManager, logger)
	companyHandler := handlers.NewCompanyHandler(scraper.NewClient(cfg.ScraperURL), aiProvider, promptManager, logger)
	sessionHandler := handlers.NewSessionHandler(sessionRepo, logger)
	interviewHandler := handlers.NewInterviewHandler(flow, logger)
	toolHandler := handlers.NewToolHandler(flow, logger)
	wsHandler := handlers.NewWSHandler(flow, logger)
	healthHandler := handlers.NewHealthHandler(aiProvider, db)

	authenticator := &middleware.Authenticator{Secret: cfg.JWTSecret, Blacklist: blacklist}

	// stale-state cleanup job
	cleanup := cron.New()
	if _, err := cleanup.AddFunc(cfg.CleanupSchedule, func() {
		removed := store.RemoveIdle(cfg.StateTTL)
		for _, id := range removed {
			hub.Delete(id)
		}
		metrics.ActiveInterviews.Set(float64(store.ActiveCount()))
	}); err != nil {
		logger.Error("Failed to schedule state cleanup", zap.Error(err))
	} else {
		cleanup.Start()
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)
	router.Use(metrics.Middleware)

	routers.HealthRoutes(router, healthHandler)
	routers.AuthRoutes(router, authHandler)
	routers.APIRoutes(router, authenticator, profileHandler, documentHandler, companyHandler, sessionHandler, interviewHandler)
	routers.ToolRoutes(router, toolHandler)
	routers.WSRoutes(router, wsHandler)

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls ride on request handlers
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Hireability server starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Hireability server shutting down...")
	cleanup.Stop()

	// best-effort flush of every live interview before the state is lost
	store.RemoveIdle(0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Hireability server exited")
}

// @title         resumatch API
// @version       1.0
// @description   Matches uploaded resumes against live job postings from multiple sources, keeps per-user search history and sends scheduled job alert emails.
// @BasePath      /
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Authorization token. Accepted formats: "Bearer <JWT>" or "<JWT>".
package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	_ "github.com/resumatch/backend/docs"

	// internal imports
	httpapi "github.com/resumatch/backend/api/http"
	"github.com/resumatch/backend/api/http/handlers"
	"github.com/resumatch/backend/pkg/alert"
	"github.com/resumatch/backend/pkg/cache"
	"github.com/resumatch/backend/pkg/config"
	"github.com/resumatch/backend/pkg/health"
	"github.com/resumatch/backend/pkg/health/checkers"
	"github.com/resumatch/backend/pkg/history"
	"github.com/resumatch/backend/pkg/match"
	pgrepo "github.com/resumatch/backend/pkg/repository/postgres"
	"github.com/resumatch/backend/pkg/security/jwt"
	"github.com/resumatch/backend/pkg/source"
	"github.com/resumatch/backend/pkg/source/aggregator"
	"github.com/resumatch/backend/pkg/source/session"
	"github.com/resumatch/backend/pkg/storage/postgres"
	"github.com/resumatch/backend/pkg/user"
)

const cacheTTL = 10 * time.Minute

func main() {
	app := fiber.New()
	ctx := context.Background()

	// Load configuration from env/.env
	cfg := config.Load()

	// Persistence: Postgres when configured, in-memory otherwise so the
	// service still runs in local and CI environments without a database.
	var (
		histories history.Store
		users     user.Repository
		checks    []health.Checker
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pool.Close()
		historyRepo, err := pgrepo.NewHistoryRepository(pool)
		if err != nil {
			log.Fatalf("init history repo: %v", err)
		}
		userRepo, err := pgrepo.NewUserRepository(pool)
		if err != nil {
			log.Fatalf("init user repo: %v", err)
		}
		histories = historyRepo
		users = userRepo
		checks = append(checks, checkers.NewPostgresChecker(pool))
	} else {
		log.Println("DATABASE_URL not set, using in-memory stores")
		histories = history.NewMemoryStore()
		users = user.NewMemoryRepository()
	}

	// Optional Redis page cache for the aggregator
	var pageCache aggregator.Cache
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer redisClient.Close()
		pageCache = cache.NewRedisCache(redisClient)
		checks = append(checks, checkers.NewRedisChecker(redisClient))
	}

	// Job sources and the concurrent fan-out over them
	aggregatorSrc := aggregator.New(
		cfg.Aggregator.BaseURL,
		cfg.Aggregator.AppID,
		cfg.Aggregator.AppKey,
		cfg.Aggregator.Country,
		pageCache,
		cacheTTL,
	)
	sessionSrc := session.New(cfg.SessionBaseURL, cfg.SessionProvider, cfg.SessionCookieName, source.EnvCredentialStore{})
	fetcher := source.NewFetcher(cfg.SourceTimeout, aggregatorSrc, sessionSrc)

	engine := match.NewEngine(nil)

	mailer := &alert.SMTPMailer{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}
	dispatcher := alert.NewDispatcher(users, histories, fetcher, engine, mailer, cfg.AlertWorkers, cfg.AlertMinScore, cfg.DefaultLocation)

	scheduler := alert.NewScheduler(dispatcher, cfg.AlertCronSpec)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("start alert scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Health service: compose checkers
	readiness := health.NewService(checks...)
	healthHandler := handlers.NewHealthHandler(readiness)

	resumeHandler := handlers.NewResumeHandler(fetcher, engine, histories)
	jobsHandler := handlers.NewJobsHandler(sessionSrc, aggregatorSrc, engine, cfg.SourceTimeout)
	alertHandler := handlers.NewAlertHandler(dispatcher, users)

	mw := httpapi.Middleware{
		RequireAuth:  jwt.NewAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
		OptionalAuth: jwt.NewOptionalAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
	}

	// Register routes
	httpapi.Register(app, mw, resumeHandler, jobsHandler, alertHandler, healthHandler)

	// Start server
	port := cfg.Port
	log.Printf("HTTP server listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

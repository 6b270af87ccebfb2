package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"marketdz/internal/config"
	"marketdz/internal/handlers"
	"marketdz/internal/ratelimit"
	"marketdz/internal/repositories"
	"marketdz/internal/services"
)

type application struct {
	cfg               config.Config
	errorLog          *log.Logger
	infoLog           *log.Logger
	db                *sql.DB
	rdb               *redis.Client
	limiter           ratelimit.Limiter
	searchHandler     *handlers.SearchHandler
	suggestionHandler *handlers.SuggestionHandler
	healthHandler     *handlers.HealthHandler
}

func initializeApp(cfg config.Config, db *sql.DB, rdb *redis.Client, errorLog, infoLog *log.Logger) *application {
	// Repositories
	listingRepo := repositories.ListingRepository{DB: db}
	profileRepo := repositories.ProfileRepository{DB: db}

	// Services
	searchService := &services.SearchService{
		Listings: &listingRepo,
		Profiles: &profileRepo,
		Counts: &services.RedisCountCache{
			RDB:      rdb,
			TTL:      time.Duration(cfg.Search.CountCacheTTLSec) * time.Second,
			ErrorLog: errorLog,
		},
		Strategies: services.StrategyConfig{
			FullText:  cfg.Search.FullTextEnabled,
			Substring: cfg.Search.SubstringEnabled,
			Trigram:   cfg.Search.TrigramEnabled,
		},
		InfoLog:  infoLog,
		ErrorLog: errorLog,
	}
	suggestionService := &services.SuggestionService{Listings: &listingRepo}

	// Rate limiter tiers, most durable first. The in-process counter is
	// unsound across instances and stays out of production builds.
	var tiers []ratelimit.Limiter
	if rdb != nil {
		tiers = append(tiers, ratelimit.NewRedisLimiter(rdb))
	}
	tiers = append(tiers, ratelimit.NewPostgresLimiter(db))
	if !cfg.IsProduction() {
		tiers = append(tiers, ratelimit.NewMemoryLimiter())
	}

	// Handlers
	searchHandler := &handlers.SearchHandler{Service: searchService, ErrorLog: errorLog}
	suggestionHandler := &handlers.SuggestionHandler{Service: suggestionService, ErrorLog: errorLog}
	healthHandler := &handlers.HealthHandler{DB: db, RDB: rdb, Listings: &listingRepo}

	return &application{
		cfg:               cfg,
		errorLog:          errorLog,
		infoLog:           infoLog,
		db:                db,
		rdb:               rdb,
		limiter:           ratelimit.NewTieredLimiter(errorLog, tiers...),
		searchHandler:     searchHandler,
		suggestionHandler: suggestionHandler,
		healthHandler:     healthHandler,
	}
}

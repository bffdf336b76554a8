package main

import (
	"context"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stockroom-io/stockroom/internal/auth"
	"github.com/stockroom-io/stockroom/internal/config"
	"github.com/stockroom-io/stockroom/internal/db"
	router "github.com/stockroom-io/stockroom/internal/http"
	"github.com/stockroom-io/stockroom/internal/http/handlers"
	rl "github.com/stockroom-io/stockroom/internal/http/rate_limiter"
	"github.com/stockroom-io/stockroom/internal/ledger"
	"github.com/stockroom-io/stockroom/internal/redissvc"
	"github.com/stockroom-io/stockroom/internal/repo"
)

// @title Stockroom API
// @version 1.0
// @description REST API for warehouse stock levels and the movement ledger.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}

	auth.Configure(cfg.JWTSecret, cfg.AccessTokenTTL)
	rl.Configure(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rl.StartVisitorCleanupLoop()

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("could not connect to Redis")
	}
	defer rdb.Close()
	redisService := redissvc.NewRedisService(rdb, ctx)
	handlers.SetRefreshTokenStore(redisService, cfg.RefreshTokenTTL)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	defer database.Close()

	if cfg.SchemaPath != "" {
		if err := db.EnsureSchema(database, cfg.SchemaPath); err != nil {
			log.Fatal().Err(err).Msg("could not apply schema")
		}
		log.Info().Str("path", cfg.SchemaPath).Msg("schema ensured")
	}

	handlers.SetLedger(ledger.NewPostgresLedger(database))
	handlers.SetProductRepo(repo.NewPostgresProductRepository(database))
	handlers.SetWarehouseRepo(repo.NewPostgresWarehouseRepository(database))
	handlers.SetMovementRepo(repo.NewPostgresMovementRepository(database))
	handlers.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))
	handlers.SetUserRepo(repo.NewPostgresUserRepository(database))

	r := router.NewRouter()
	log.Info().Str("addr", cfg.Addr).Msg("server running")
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

package handlers

import (
	"time"

	"github.com/stockroom-io/stockroom/internal/auth"
	"github.com/stockroom-io/stockroom/internal/ledger"
	repo "github.com/stockroom-io/stockroom/internal/repo"
)

var (
	stockLedger   ledger.Engine
	productRepo   repo.ProductRepository
	warehouseRepo repo.WarehouseRepository
	movementRepo  repo.MovementRepository
	metricsRepo   repo.MetricsRepository
	userRepo      repo.UserRepository

	refreshTokens   auth.RefreshTokenStore
	refreshTokenTTL = 7 * 24 * time.Hour
)

func SetLedger(l ledger.Engine) {
	stockLedger = l
}

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetWarehouseRepo(r repo.WarehouseRepository) {
	warehouseRepo = r
}

func SetMovementRepo(r repo.MovementRepository) {
	movementRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetRefreshTokenStore(s auth.RefreshTokenStore, ttl time.Duration) {
	refreshTokens = s
	if ttl > 0 {
		refreshTokenTTL = ttl
	}
}

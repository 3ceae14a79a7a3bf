package cart

import (
	"database/sql"
	"time"

	"inkwell/internal/cart/cache"
	"inkwell/internal/cart/controller"
	"inkwell/internal/cart/repository"
	"inkwell/internal/cart/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Module struct {
	Service    *service.CartService
	Controller *controller.CartController
}

func NewModule(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, catalog service.ServiceCatalog, logger *zap.Logger) *Module {
	repo := repository.NewMySQLCartRepository(db)
	svc := service.NewCartService(
		db,
		repo,
		cache.NewRedisCache(redisClient, cacheTTL),
		catalog,
		cache.NewMergeFlags(redisClient),
		logger,
	)
	return &Module{
		Service:    svc,
		Controller: controller.NewCartController(svc, logger),
	}
}

package promo

import (
	"database/sql"

	"inkwell/internal/promo/repository"

	"go.uber.org/zap"
)

type Module struct {
	Service    *Service
	Controller *Controller
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	svc := NewService(repository.NewMySQLPromoCodeRepository(db), logger)
	return &Module{
		Service:    svc,
		Controller: NewController(svc, logger),
	}
}

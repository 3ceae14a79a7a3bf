package catalog

import (
	"database/sql"

	"inkwell/internal/catalog/repository"

	"go.uber.org/zap"
)

type Module struct {
	Service    *Service
	Controller *Controller
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	svc := NewService(repo, logger)
	return &Module{
		Service:    svc,
		Controller: NewController(svc, logger),
	}
}

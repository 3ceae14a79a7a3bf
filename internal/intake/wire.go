package intake

import (
	"database/sql"

	"go.uber.org/zap"
)

type Module struct {
	Service    *Service
	Controller *Controller
}

func NewModule(db *sql.DB, orders OrderChecker, logger *zap.Logger) *Module {
	svc := NewService(NewMySQLIntakeRepository(db), orders, logger)
	return &Module{
		Service:    svc,
		Controller: NewController(svc, logger),
	}
}

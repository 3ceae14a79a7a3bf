package webhook

import (
	"database/sql"

	"go.uber.org/zap"
)

type Module struct {
	Reconciler *Reconciler
	Controller *Controller
}

func NewModule(db *sql.DB, verifier SignatureVerifier, orders OrderFinder, transitions Transitioner, logger *zap.Logger) *Module {
	reconciler := NewReconciler(orders, transitions, NewMySQLEventRepository(db), logger)
	return &Module{
		Reconciler: reconciler,
		Controller: NewController(verifier, reconciler, logger),
	}
}

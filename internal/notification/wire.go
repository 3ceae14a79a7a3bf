package notification

import (
	"database/sql"

	"inkwell/internal/config"

	"go.uber.org/zap"
)

type Module struct {
	Notifier   *Notifier
	Controller *Controller
}

func NewModule(db *sql.DB, cfg config.EmailConfig, logger *zap.Logger) *Module {
	var sender Sender
	if cfg.Mock {
		sender = NewLogSender(logger)
	} else {
		sender = NewSMTPSender(cfg)
	}

	logs := NewMySQLEmailLogRepository(db)
	return &Module{
		Notifier:   NewNotifier(sender, logs, cfg.SupportEmail, logger),
		Controller: NewController(logs, logger),
	}
}

package audit

import (
	"fileshare/internal/core/port"
	"log/slog"
)

type auditService struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewAuditService creates a message handler that records file events
func NewAuditService(uow port.UnitOfWork, logger *slog.Logger) port.MessageService {
	return &auditService{
		uow:    uow,
		logger: logger,
	}
}

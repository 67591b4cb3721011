package ports

import (
	"context"

	"github.com/usermgmt/accounts-api/internal/core/domain"
)

// AuditPublisher accepts audit events without blocking the caller.
type AuditPublisher interface {
	Publish(event domain.AuditEvent)
}

// AuditRepository appends audit events to durable storage.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

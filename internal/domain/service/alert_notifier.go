package service

import (
	"context"

	"coffeexport/internal/domain/entity"
)

// AlertNotifier delivers the out-of-band notification raised by CRITICAL audit entries
type AlertNotifier interface {
	// NotifyCritical sends an immediate alert describing the audit entry
	NotifyCritical(ctx context.Context, entry *entity.AuditLog) error
}

package service

import "coffeexport/internal/domain/entity"

// ContentHasher computes the tamper-evidence digest of an audit entry's immutable fields.
type ContentHasher interface {
	Hash(entry *entity.AuditLog) (string, error)
}

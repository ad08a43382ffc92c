// Package digest computes the tamper-evidence hash stored on audit entries.
package digest

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/service"
)

// sealedFields is the canonical form that is hashed. It leaves out Status and
// LedgerTxID, the two fields allowed to change after an entry is written.
type sealedFields struct {
	ID                 string         `json:"id"`
	UserID             string         `json:"user_id"`
	ActorRole          string         `json:"actor_role"`
	OrganizationID     string         `json:"organization_id"`
	EntityType         string         `json:"entity_type"`
	EntityID           string         `json:"entity_id"`
	ExportID           string         `json:"export_id"`
	Action             string         `json:"action"`
	OldValue           map[string]any `json:"old_value"`
	NewValue           map[string]any `json:"new_value"`
	Severity           string         `json:"severity"`
	ComplianceRelevant bool           `json:"compliance_relevant"`
	Description        string         `json:"description"`
	IPAddress          string         `json:"ip_address"`
	UserAgent          string         `json:"user_agent"`
	SessionID          string         `json:"session_id"`
	CreatedAt          string         `json:"created_at"`
}

type blake2bHasher struct{}

// NewBlake2bHasher returns a ContentHasher producing hex BLAKE2b-256 digests.
func NewBlake2bHasher() service.ContentHasher {
	return blake2bHasher{}
}

func (blake2bHasher) Hash(entry *entity.AuditLog) (string, error) {
	fields := sealedFields{
		ID:                 entry.ID.String(),
		UserID:             entry.UserID.String(),
		ActorRole:          string(entry.ActorRole),
		EntityType:         string(entry.EntityType),
		EntityID:           entry.EntityID,
		Action:             string(entry.Action),
		OldValue:           entry.OldValue,
		NewValue:           entry.NewValue,
		Severity:           string(entry.Severity),
		ComplianceRelevant: entry.ComplianceRelevant,
		Description:        entry.Description,
		IPAddress:          entry.IPAddress,
		UserAgent:          entry.UserAgent,
		SessionID:          entry.SessionID,
		CreatedAt:          entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if entry.OrganizationID != nil {
		fields.OrganizationID = entry.OrganizationID.String()
	}
	if entry.ExportID != nil {
		fields.ExportID = entry.ExportID.String()
	}

	// encoding/json sorts map keys, so the nested values encode deterministically.
	canonical, err := json.Marshal(fields)
	if err != nil {
		return "", errors.Wrap(err, "encode audit entry")
	}

	sum := blake2b.Sum256(canonical)

	return hex.EncodeToString(sum[:]), nil
}

package service

import (
	"github.com/google/uuid"

	"coffeexport/internal/domain/entity"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateClearanceQR generates a PNG QR code identifying a cleared export for port-side checks
	GenerateClearanceQR(exportID uuid.UUID, status entity.ExportStatus) ([]byte, error)

	// ParseClearanceQR parses QR code data and returns the export ID
	ParseClearanceQR(qrData string) (uuid.UUID, error)
}

package qrcode

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/service"
)

const clearanceType = "customs_clearance"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// ClearanceData is the payload encoded in a clearance QR code
type ClearanceData struct {
	ExportID string `json:"export_id"`
	Status   string `json:"status"`
	Type     string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = 256
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateClearanceQR generates a PNG QR code port officers scan to confirm clearance
func (s *qrcodeService) GenerateClearanceQR(exportID uuid.UUID, status entity.ExportStatus) ([]byte, error) {
	jsonData, err := json.Marshal(ClearanceData{
		ExportID: exportID.String(),
		Status:   string(status),
		Type:     clearanceType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseClearanceQR parses scanned QR code data and returns the export ID.
// The status in the code is informational; callers re-read the export.
func (s *qrcodeService) ParseClearanceQR(qrData string) (uuid.UUID, error) {
	var data ClearanceData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != clearanceType {
		return uuid.Nil, fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	exportID, err := uuid.Parse(data.ExportID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse export ID: %w", err)
	}

	return exportID, nil
}

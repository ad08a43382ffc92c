// Package ledger anchors audit entries on the external distributed ledger.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"coffeexport/config"
	deliverycontext "coffeexport/internal/delivery/context"
	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/service"
)

const defaultTimeout = 10 * time.Second

// anchorRequest is the body submitted to the gateway. Only the digest leaves the
// system; the ledger never sees entry contents.
type anchorRequest struct {
	Channel     string `json:"channel"`
	AuditID     string `json:"audit_id"`
	Action      string `json:"action"`
	ContentHash string `json:"content_hash"`
	CreatedAt   string `json:"created_at"`
}

type anchorResponse struct {
	TxID string `json:"tx_id"`
}

// httpGateway submits anchors to the ledger gateway's REST endpoint
type httpGateway struct {
	url        string
	channel    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPGateway creates a LedgerAnchor posting to the gateway URL
func NewHTTPGateway(cfg *config.LedgerConfig, logger *slog.Logger) service.LedgerAnchor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &httpGateway{
		url:        cfg.GatewayURL,
		channel:    cfg.Channel,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (g *httpGateway) Anchor(ctx context.Context, entry *entity.AuditLog) (string, error) {
	body, err := json.Marshal(anchorRequest{
		Channel:     g.channel,
		AuditID:     entry.ID.String(),
		Action:      string(entry.Action),
		ContentHash: entry.ContentHash,
		CreatedAt:   entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return "", errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ledger gateway request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return "", errors.Errorf("ledger gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var decoded anchorResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.Wrap(err, "decode ledger gateway response")
	}
	if decoded.TxID == "" {
		return "", errors.New("ledger gateway returned an empty transaction id")
	}

	g.logger.Debug("Audit entry anchored",
		slog.String("auditID", entry.ID.String()),
		slog.String("txID", decoded.TxID),
	)

	return decoded.TxID, nil
}

// noopGateway anchors nothing; entries stay PENDING.
type noopGateway struct{}

// NewNoopGateway returns a LedgerAnchor used when the ledger is disabled.
func NewNoopGateway() service.LedgerAnchor {
	return noopGateway{}
}

func (noopGateway) Anchor(context.Context, *entity.AuditLog) (string, error) {
	return "", nil
}

// LedgerParams holds dependencies for LedgerAnchor, injected by Fx
type LedgerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewLedgerAnchor returns the HTTP gateway when the ledger is enabled.
func NewLedgerAnchor(params LedgerParams) (service.LedgerAnchor, error) {
	cfg := params.Config.Ledger
	if cfg == nil || !cfg.Enabled {
		params.Logger.Info("Ledger anchoring disabled, audit entries stay pending")

		return NewNoopGateway(), nil
	}
	if cfg.GatewayURL == "" {
		return nil, errors.New("ledger gateway URL is required when the ledger is enabled")
	}

	return NewHTTPGateway(cfg, params.Logger), nil
}

// Module provides the ledger FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewLedgerAnchor),
)

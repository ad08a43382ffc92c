package ledger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeexport/config"
	"coffeexport/internal/domain/entity"
)

func anchoredEntry() *entity.AuditLog {
	return &entity.AuditLog{
		ID:          uuid.New(),
		Action:      entity.AuditActionClearCustoms,
		ContentHash: "abc123",
		CreatedAt:   time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func newGateway(url string) *httpGateway {
	return NewHTTPGateway(&config.LedgerConfig{GatewayURL: url, Channel: "export-audit"},
		slog.New(slog.NewTextHandler(io.Discard, nil))).(*httpGateway)
}

func TestHTTPGateway_Anchor(t *testing.T) {
	entry := anchoredEntry()
	var got anchorRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(anchorResponse{TxID: "tx-0001"})
	}))
	defer server.Close()

	txID, err := newGateway(server.URL).Anchor(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, "tx-0001", txID)
	assert.Equal(t, "export-audit", got.Channel)
	assert.Equal(t, entry.ID.String(), got.AuditID)
	assert.Equal(t, "abc123", got.ContentHash)
	assert.Equal(t, "CLEAR_CUSTOMS", got.Action)
}

func TestHTTPGateway_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "peer unavailable", http.StatusServiceUnavailable)
			},
			wantErr: "503",
		},
		{
			name: "empty tx id",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"tx_id":""}`))
			},
			wantErr: "empty transaction id",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			wantErr: "decode ledger gateway response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			txID, err := newGateway(server.URL).Anchor(context.Background(), anchoredEntry())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, txID)
		})
	}
}

func TestNoopGateway(t *testing.T) {
	txID, err := NewNoopGateway().Anchor(context.Background(), anchoredEntry())
	require.NoError(t, err)
	assert.Empty(t, txID)
}

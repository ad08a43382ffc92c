// Package handler contains the worker's push and job endpoints.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"

	"coffeexport/config"
	deliverycontext "coffeexport/internal/delivery/context"
	"coffeexport/internal/domain/constants"
	"coffeexport/internal/domain/entity"
	"coffeexport/internal/domain/service"
	"coffeexport/internal/usecase"
)

const (
	// anchorWindowBefore covers the gap between the audit insert and the event timestamp.
	anchorWindowBefore = 5 * time.Minute
	anchorWindowAfter  = time.Minute
	defaultJobWindow   = 24 * time.Hour
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler reacts to committed export transitions: it drops stale read views
// and retries ledger anchoring for transitions whose audit entry is anchored.
type PushHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	auditUC        usecase.AuditUsecase
	cache          service.ExportCache
	now            func() time.Time
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config  *config.Config
	Logger  *slog.Logger
	AuditUC usecase.AuditUsecase
	Cache   service.ExportCache
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		auditUC:        params.AuditUC,
		cache:          params.Cache,
		now:            time.Now,
	}
}

// HandlePush handles incoming export events in Pub/Sub push format
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.ExportEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse export event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing export event",
		slog.String("export_id", event.ExportID),
		slog.String("action", event.Action),
		slog.String("new_status", event.NewStatus),
	)

	if err := h.processEvent(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process export event",
			slog.String("export_id", event.ExportID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// 503 asks Pub/Sub to redeliver; 200 drops a message that can never succeed.
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

// extractRequestID prefers message attributes, then the event, then the inbound request
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.ExportEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// anchoredAuditAction resolves the audit action the transition recorded.
func anchoredAuditAction(event *service.ExportEvent) (entity.AuditAction, bool) {
	action := entity.ExportAction(event.Action)

	var auditAction entity.AuditAction
	if transition, ok := entity.ResolveTransition(entity.ExportStatus(event.OldStatus), action); ok {
		auditAction = transition.AuditAction
	} else if policy, ok := entity.PolicyFor(action); ok {
		auditAction = policy.AuditAction
	} else {
		return "", false
	}

	return auditAction, auditAction.IsLedgerAnchored()
}

func (h *PushHandler) processEvent(ctx context.Context, event *service.ExportEvent) error {
	exportID, err := uuid.Parse(event.ExportID)
	if err != nil {
		return errors.Wrap(err, "invalid export_id")
	}
	exporterID, err := uuid.Parse(event.ExporterID)
	if err != nil {
		return errors.Wrap(err, "invalid exporter_id")
	}

	// The API instance already invalidated and fenced its view; this drops whatever was refilled since.
	if err := h.cache.Invalidate(ctx, exportID, exporterID, time.Time{}); err != nil {
		return newRetryableError(errors.Wrap(err, "invalidate cache"))
	}

	auditAction, anchored := anchoredAuditAction(event)
	if !anchored {
		return nil
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = h.now()
	}
	from := occurredAt.Add(-anchorWindowBefore)
	to := occurredAt.Add(anchorWindowAfter)

	recorded, err := h.auditUC.AnchorPending(ctx, entity.AuditQuery{From: &from, To: &to})
	if err != nil {
		return newRetryableError(errors.Wrap(err, "anchor pending entries"))
	}

	deliverycontext.GetLoggerOrDefault(ctx, h.logger).Info("[Worker] Ledger anchoring retried",
		slog.String("export_id", event.ExportID),
		slog.String("audit_action", string(auditAction)),
		slog.Int("recorded", recorded),
	)

	return nil
}

// HandleAnchorJob retries anchoring over the last `hours` hours (default 24). Meant for a scheduler.
func (h *PushHandler) HandleAnchorJob(c echo.Context) error {
	window := defaultJobWindow
	if raw := c.QueryParam("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "hours must be a positive integer"})
		}
		window = time.Duration(hours) * time.Hour
	}

	to := h.now()
	from := to.Add(-window)

	recorded, err := h.auditUC.AnchorPending(c.Request().Context(), entity.AuditQuery{From: &from, To: &to})
	if err != nil {
		h.logger.Error("[Worker] Anchor job failed", slog.Any("error", err))

		return c.NoContent(http.StatusServiceUnavailable)
	}

	return c.JSON(http.StatusOK, map[string]int{"recorded": recorded})
}

// verifyPubSubToken validates the OIDC token Google attaches to authenticated push requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return errors.New("invalid authorization header format")
	}

	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}

package payments

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

const maxWebhookBody = 64 << 10

// UserLookup resolves the signed-in user.
type UserLookup interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

type Handler struct {
	Svc   *Service
	Users UserLookup
}

func NewHandler(svc *Service, lookup UserLookup) *Handler {
	return &Handler{Svc: svc, Users: lookup}
}

// RegisterRoutes attaches the signed-in payment routes to authed and the
// provider webhook to public.
func (h *Handler) RegisterRoutes(public, authed *gin.RouterGroup) {
	authed.POST("/payments/checkout", h.checkout)
	authed.GET("/payments/status/:session_id", h.status)
	public.POST("/webhook/stripe", h.webhook)
}

type checkoutRequest struct {
	OriginURL string `json:"origin_url"`
}

func (h *Handler) checkout(c *gin.Context) {
	var req checkoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	origin := req.OriginURL
	if origin == "" {
		origin = c.GetHeader("Origin")
	}

	user, err := h.Users.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "user not found", nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	result, err := h.Svc.CreateCheckout(c.Request.Context(), user, origin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("sessionId", result.SessionID)
	respond.OK(c, result)
}

func (h *Handler) status(c *gin.Context) {
	sessionID := c.Param("session_id")
	c.Set("sessionId", sessionID)
	sess, err := h.Svc.Status(c.Request.Context(), middleware.UserIDFromContext(c), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, sess)
}

func (h *Handler) webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read body", nil)
		return
	}
	if err := h.Svc.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		if errors.Is(err, ErrInvalidSignature) || errors.Is(err, ErrNotConfigured) {
			writeError(c, err)
			return
		}
		telemetry.L().Warn("webhook rejected", zap.Error(err))
		respond.Error(c, http.StatusBadRequest, "webhook_error", "Webhook could not be processed", nil)
		return
	}
	respond.OK(c, gin.H{"status": "success"})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Payment session not found", nil)
	case errors.Is(err, ErrInvalidSignature):
		respond.Error(c, http.StatusBadRequest, "invalid_signature", "Webhook signature verification failed", nil)
	case errors.Is(err, ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "payments_unavailable", "Payments are not configured", nil)
	default:
		respond.Internal(c, err)
	}
}

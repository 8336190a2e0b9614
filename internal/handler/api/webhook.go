package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"conftix/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "X-Paystack-Signature"

// WebhookVerifier checks processor webhook signatures.
type WebhookVerifier interface {
	VerifyWebhookSignature(body []byte, signature string) bool
}

type WebhookHandler struct {
	checkoutCommands commands.CheckoutCommands
	verifier         WebhookVerifier
}

func NewWebhookHandler(checkoutCommands commands.CheckoutCommands, verifier WebhookVerifier) *WebhookHandler {
	return &WebhookHandler{
		checkoutCommands: checkoutCommands,
		verifier:         verifier,
	}
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// @Summary Payment webhook
// @Description Receive processor events; successful charges trigger reconciliation
// @Tags webhooks
// @Accept json
// @Success 200
// @Failure 400
// @Failure 401
// @Router /webhooks/payment [post]
func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	signature := c.GetHeader(signatureHeader)
	if signature == "" || !h.verifier.VerifyWebhookSignature(body, signature) {
		slog.Warn("rejected webhook with bad signature", "path", c.Request.URL.Path)
		c.Status(http.StatusUnauthorized)
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if event.Event != "charge.success" {
		// Acknowledge everything else so the processor stops retrying.
		c.Status(http.StatusOK)
		return
	}

	result, err := h.checkoutCommands.Confirm(c.Request.Context(), commands.ConfirmParams{
		PaymentReference: event.Data.Reference,
	})
	if err != nil {
		// Non-2xx makes the processor redeliver, which is what we want for
		// transient failures. Confirmation replays are safe.
		slog.Error("webhook confirmation failed",
			"payment_reference", event.Data.Reference,
			"error", err.Error(),
		)
		c.Status(http.StatusInternalServerError)
		return
	}

	slog.Info("webhook confirmation processed",
		"payment_reference", event.Data.Reference,
		"purchases", len(result.Purchases),
		"replayed", result.IsReplayed,
	)
	c.Status(http.StatusOK)
}

package delivery

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	syncdto "lifedash-backend/internal/sync/dto"
	"lifedash-backend/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	webhookUsecase usecase.WebhookUsecase
	secret         string
}

func NewWebhookHandler(webhookUsecase usecase.WebhookUsecase, secret string) *WebhookHandler {
	return &WebhookHandler{
		webhookUsecase: webhookUsecase,
		secret:         secret,
	}
}

// HandleWebhook receives change notifications from Notion. The endpoint is
// unauthenticated; authenticity comes from the HMAC signature header. Apart
// from a signature mismatch it always answers 200 so the source does not
// retry events we chose to drop.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}

	var event syncdto.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("[Webhook] Unparseable payload: %v", err)
		c.JSON(http.StatusOK, gin.H{"message": "ignored"})
		return
	}

	// Subscription handshake: echo the token back, it never carries an event
	if event.VerificationToken != "" {
		log.Printf("[Webhook] Verification request received")
		c.JSON(http.StatusOK, gin.H{"verification_token": event.VerificationToken})
		return
	}

	if !h.verifySignature(body, c.GetHeader("X-Notion-Signature")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	if err := h.webhookUsecase.HandleEvent(c.Request.Context(), &event); err != nil {
		// Processing failures still answer 200; a retry would hit the
		// same error and the next full sync reconciles anyway
		log.Printf("[Webhook] Failed to handle %s: %v", event.Type, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// verifySignature checks the sha256 HMAC of the raw body against the header.
// With no secret configured, signature checking is disabled.
func (h *WebhookHandler) verifySignature(body []byte, header string) bool {
	if h.secret == "" {
		return true
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}

package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"autovid/internal/config"
	"autovid/internal/logger"
)

// WebhookHandler acknowledges Shopify's mandatory compliance webhooks.
// The app stores no customer data, so every topic is an ack after
// signature verification.
type WebhookHandler struct {
	config *config.Config
	logger *logger.Logger
}

func NewWebhookHandler(cfg *config.Config, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{config: cfg, logger: logger}
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	topic := c.GetHeader("X-Shopify-Topic")
	shopDomain := c.GetHeader("X-Shopify-Shop-Domain")
	signature := c.GetHeader("X-Shopify-Hmac-Sha256")

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read payload"})
		return
	}

	if !h.verifySignature(payload, signature) {
		h.logger.Warn("Rejected webhook with bad signature from %s", shopDomain)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid webhook signature"})
		return
	}

	switch topic {
	case "customers/data_request", "customers/redact", "shop/redact":
		h.logger.Info("Compliance webhook %s acknowledged for %s", topic, shopDomain)
	default:
		h.logger.Debug("Unhandled webhook topic: %s", topic)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if h.config.ShopifyAPISecret == "" {
		// Nothing to verify against in local development.
		return true
	}
	mac := hmac.New(sha256.New, []byte(h.config.ShopifyAPISecret))
	mac.Write(payload)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

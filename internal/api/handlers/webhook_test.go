package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"autovid/internal/config"
	"autovid/internal/logger"
)

func signPayload(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func webhookRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewWebhookHandler(&config.Config{ShopifyAPISecret: secret}, logger.New("error"))
	router := gin.New()
	router.POST("/api/webhooks", handler.Handle)
	return router
}

func TestWebhookSignature(t *testing.T) {
	const payload = `{"shop_domain":"demo.myshopify.com"}`

	t.Run("valid signature is acknowledged", func(t *testing.T) {
		router := webhookRouter("secret")

		req := httptest.NewRequest(http.MethodPost, "/api/webhooks", strings.NewReader(payload))
		req.Header.Set("X-Shopify-Topic", "customers/redact")
		req.Header.Set("X-Shopify-Hmac-Sha256", signPayload("secret", payload))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		router := webhookRouter("secret")

		req := httptest.NewRequest(http.MethodPost, "/api/webhooks", strings.NewReader(payload))
		req.Header.Set("X-Shopify-Topic", "shop/redact")
		req.Header.Set("X-Shopify-Hmac-Sha256", signPayload("wrong-secret", payload))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown topic is still acknowledged", func(t *testing.T) {
		router := webhookRouter("secret")

		req := httptest.NewRequest(http.MethodPost, "/api/webhooks", strings.NewReader(payload))
		req.Header.Set("X-Shopify-Topic", "products/update")
		req.Header.Set("X-Shopify-Hmac-Sha256", signPayload("secret", payload))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

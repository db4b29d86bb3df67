package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autovid/internal/config"
	"autovid/internal/logger"
	"autovid/internal/services/shopify"
	"autovid/internal/store"
)

// ShopHandler serves install and onboarding. Install is the only
// unauthenticated write route: it is what stores the credentials the
// other routes authenticate against.
type ShopHandler struct {
	shops   *store.ShopStore
	prompts *store.PromptStore
	config  *config.Config
	logger  *logger.Logger
}

func NewShopHandler(shops *store.ShopStore, prompts *store.PromptStore, cfg *config.Config, logger *logger.Logger) *ShopHandler {
	return &ShopHandler{
		shops:   shops,
		prompts: prompts,
		config:  cfg,
		logger:  logger,
	}
}

// Install stores or refreshes the shop's Admin API credentials and
// seeds its prompt row.
func (h *ShopHandler) Install(c *gin.Context) {
	var request struct {
		Shop        string `json:"shop" binding:"required"`
		AccessToken string `json:"accessToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "shop and accessToken are required"})
		return
	}

	if err := h.shops.Upsert(request.Shop, request.AccessToken); err != nil {
		h.logger.Error("Failed to store shop %s: %v", request.Shop, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store shop"})
		return
	}
	if err := h.prompts.EnsureForShop(request.Shop); err != nil {
		h.logger.Error("Failed to seed prompt for %s: %v", request.Shop, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to initialize shop"})
		return
	}

	h.logger.Info("Shop installed: %s", request.Shop)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetOnboarding reads the app-level onboarding flag.
func (h *ShopHandler) GetOnboarding(c *gin.Context) {
	admin := adminClient(c, h.config, h.logger)
	_, metafields, err := admin.AppInstallation(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load app installation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load onboarding state"})
		return
	}

	completed := false
	for _, field := range metafields {
		if field.Namespace == shopify.AppMetafieldNamespace && field.Key == shopify.AppMetafieldKeyOnboarding {
			completed = field.Value == "true"
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "completed": completed})
}

// CompleteOnboarding marks onboarding done on the app installation.
func (h *ShopHandler) CompleteOnboarding(c *gin.Context) {
	admin := adminClient(c, h.config, h.logger)
	installationGID, _, err := admin.AppInstallation(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load app installation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load onboarding state"})
		return
	}

	if err := admin.SetOnboardingComplete(c.Request.Context(), installationGID); err != nil {
		h.logger.Error("Failed to mark onboarding complete: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save onboarding state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "completed": true})
}

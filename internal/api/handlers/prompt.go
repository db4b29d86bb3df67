package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"autovid/internal/logger"
	"autovid/internal/services/summarizer"
	"autovid/internal/store"
)

// PromptHandler serves the per-shop summarizer prompt override.
type PromptHandler struct {
	prompts *store.PromptStore
	logger  *logger.Logger
}

func NewPromptHandler(prompts *store.PromptStore, logger *logger.Logger) *PromptHandler {
	return &PromptHandler{prompts: prompts, logger: logger}
}

// Get returns the shop's prompt, falling back to the stock template
// when no override is stored.
func (h *PromptHandler) Get(c *gin.Context) {
	shop, _ := shopFrom(c)

	prompt, err := h.prompts.Get(shop)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Error("Failed to load prompt for %s: %v", shop, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load prompt"})
		return
	}

	content := ""
	if prompt != nil {
		content = prompt.Content
	}
	isDefault := content == ""
	if isDefault {
		content = summarizer.DefaultPrompt
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"prompt":    content,
		"isDefault": isDefault,
	})
}

// Update stores the shop's prompt override. An empty prompt reverts
// the shop to the stock template.
func (h *PromptHandler) Update(c *gin.Context) {
	var request struct {
		Prompt string `json:"prompt"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	shop, _ := shopFrom(c)
	if err := h.prompts.EnsureForShop(shop); err != nil {
		h.logger.Error("Failed to ensure prompt row for %s: %v", shop, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save prompt"})
		return
	}
	if err := h.prompts.Update(shop, request.Prompt); err != nil {
		h.logger.Error("Failed to save prompt for %s: %v", shop, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save prompt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

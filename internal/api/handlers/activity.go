package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autovid/internal/logger"
	"autovid/internal/store"
)

// ActivityHandler serves the storefront beacon routes. They are
// write-heavy and cheap: one counter bump plus one activity row each.
type ActivityHandler struct {
	activities *store.ActivityStore
	logger     *logger.Logger
}

func NewActivityHandler(activities *store.ActivityStore, logger *logger.Logger) *ActivityHandler {
	return &ActivityHandler{activities: activities, logger: logger}
}

// UpdatePageView counts one product page view.
func (h *ActivityHandler) UpdatePageView(c *gin.Context) {
	var request struct {
		ProductID  int64  `json:"productId" binding:"required"`
		PageType   string `json:"pageType"`
		PageHandle string `json:"pageHandle"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "productId is required"})
		return
	}

	shop, _ := shopFrom(c)
	total, err := h.activities.RecordPageView(shop, request.ProductID, request.PageType, request.PageHandle)
	if err != nil {
		h.logger.Error("Failed to record page view: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to record page view"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "viewCount": total})
}

// UpdateVideoCount counts one video play.
func (h *ActivityHandler) UpdateVideoCount(c *gin.Context) {
	var request struct {
		ProductID int64  `json:"productId" binding:"required"`
		VideoURL  string `json:"videoUrl" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "productId and videoUrl are required"})
		return
	}

	shop, _ := shopFrom(c)
	total, err := h.activities.RecordPlay(shop, request.ProductID, request.VideoURL)
	if err != nil {
		h.logger.Error("Failed to record video play: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to record video play"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "playCount": total})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autovid/internal/config"
	"autovid/internal/logger"
	"autovid/internal/reconciler"
	"autovid/internal/services/discovery"
	"autovid/internal/services/youtube"
	"autovid/internal/store"
)

// VideoHandler serves the discovery and video-editing routes. All
// Shopify writes go through the reconciler so the tag, metafields and
// local cache move together.
type VideoHandler struct {
	discovery  *discovery.Client
	reconciler *reconciler.Reconciler
	infos      *store.ExtendedInfoStore
	config     *config.Config
	logger     *logger.Logger
}

func NewVideoHandler(disc *discovery.Client, rec *reconciler.Reconciler, infos *store.ExtendedInfoStore, cfg *config.Config, logger *logger.Logger) *VideoHandler {
	return &VideoHandler{
		discovery:  disc,
		reconciler: rec,
		infos:      infos,
		config:     cfg,
		logger:     logger,
	}
}

// GetVideo runs bulk discovery for the requested products and folds
// the results into Shopify and the local cache.
func (h *VideoHandler) GetVideo(c *gin.Context) {
	var request struct {
		ProductIDs []string `json:"productIds" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "productIds is required"})
		return
	}

	shop, accessToken := shopFrom(c)
	results, err := h.discovery.Fetch(c.Request.Context(), shop, accessToken, request.ProductIDs)
	if err != nil {
		if errors.Is(err, discovery.ErrNoVideosFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No videos found for the selected products"})
			return
		}
		h.logger.Error("Discovery request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Video discovery failed"})
		return
	}

	admin := adminClient(c, h.config, h.logger)
	batch := h.reconciler.ApplyDiscovered(c.Request.Context(), admin, shop, results)
	respondBatch(c, batch)
}

// UpdateMetafield applies a merchant-entered video to one product.
func (h *VideoHandler) UpdateMetafield(c *gin.Context) {
	var request struct {
		ProductID   string `json:"productId" binding:"required"`
		VideoURL    string `json:"videoUrl" binding:"required"`
		Title       string `json:"title"`
		Vendor      string `json:"vendor"`
		ProductType string `json:"productType"`
		Mode        string `json:"mode"`
		Summary     string `json:"summary"`
		Highlights  string `json:"highlights"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "productId and videoUrl are required"})
		return
	}

	videoID, _ := youtube.ExtractVideoID(request.VideoURL)
	shop, _ := shopFrom(c)
	admin := adminClient(c, h.config, h.logger)

	updated, err := h.reconciler.ApplyManualEdit(c.Request.Context(), admin, shop, reconciler.ManualEditInput{
		ProductID:   request.ProductID,
		Link:        request.VideoURL,
		VideoID:     videoID,
		Title:       request.Title,
		Vendor:      request.Vendor,
		ProductType: request.ProductType,
		Mode:        request.Mode,
		Summary:     request.Summary,
		Highlights:  request.Highlights,
	})
	if err != nil {
		if errors.Is(err, reconciler.ErrInvalidVideoLink) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid YouTube URL or video is not embeddable"})
			return
		}
		h.logger.Error("Manual edit failed for product %s: %v", request.ProductID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updatedProduct": updated})
}

// DeleteMetafield removes the app's video data from one or more
// products. Accepts either productId or productIds.
func (h *VideoHandler) DeleteMetafield(c *gin.Context) {
	var request struct {
		ProductID  string   `json:"productId"`
		ProductIDs []string `json:"productIds"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	ids := request.ProductIDs
	if len(ids) == 0 && request.ProductID != "" {
		ids = []string{request.ProductID}
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "productId or productIds is required"})
		return
	}

	shop, _ := shopFrom(c)
	admin := adminClient(c, h.config, h.logger)
	batch := h.reconciler.DeleteVideos(c.Request.Context(), admin, shop, ids)
	respondBatch(c, batch)
}

// MarkVideoOpened records that the merchant opened the video preview.
func (h *VideoHandler) MarkVideoOpened(c *gin.Context) {
	var request struct {
		ProductID int64 `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "productId is required"})
		return
	}

	shop, _ := shopFrom(c)
	rows, err := h.infos.MarkOpened(shop, request.ProductID)
	if err != nil {
		h.logger.Error("Failed to mark video opened: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update video"})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No videos found for product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// respondBatch maps per-item outcomes to the shared batch contract:
// 200 when everything succeeded, 206 on partial failure, 500 when
// every item failed.
func respondBatch(c *gin.Context, batch reconciler.BatchResult) {
	switch {
	case batch.AllFailed():
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":         false,
			"error":           "All products failed to update",
			"erroredProducts": batch.Errored(),
		})
	case batch.AnyFailed():
		c.JSON(http.StatusPartialContent, gin.H{
			"success":         true,
			"updatedProducts": batch.Updated(),
			"erroredProducts": batch.Errored(),
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":         true,
			"updatedProducts": batch.Updated(),
		})
	}
}

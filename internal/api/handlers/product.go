package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autovid/internal/config"
	"autovid/internal/logger"
	"autovid/internal/models"
	"autovid/internal/reconciler"
	"autovid/internal/services/shopify"
	"autovid/internal/store"
)

// ProductHandler serves the product listing and the per-product video
// carousel routes.
type ProductHandler struct {
	infos      *store.ExtendedInfoStore
	reconciler *reconciler.Reconciler
	config     *config.Config
	logger     *logger.Logger
}

func NewProductHandler(infos *store.ExtendedInfoStore, rec *reconciler.Reconciler, cfg *config.Config, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		infos:      infos,
		reconciler: rec,
		config:     cfg,
		logger:     logger,
	}
}

// listedProduct is one listing row: the Shopify node joined with the
// locally cached video rows.
type listedProduct struct {
	shopify.ProductNode
	Videos []models.ExtendedInfo `json:"videos"`
}

// GetProducts lists the catalog page described by the cursor, filter
// and sort in the request body, joined with the local video cache.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var request struct {
		Cursor  string                `json:"cursor"`
		Search  string                `json:"search"`
		SortKey string                `json:"sortKey"`
		Reverse bool                  `json:"reverse"`
		First   int                   `json:"first"`
		Filters shopify.ProductFilter `json:"filters"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	admin := adminClient(c, h.config, h.logger)
	page, err := admin.SearchProducts(c.Request.Context(), shopify.SearchOptions{
		First:   request.First,
		Cursor:  request.Cursor,
		Query:   request.Filters.BuildQuery(request.Search),
		SortKey: request.SortKey,
		Reverse: request.Reverse,
	})
	if err != nil {
		h.logger.Error("Product search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch products"})
		return
	}

	productIDs := make([]int64, 0, len(page.Edges))
	for _, edge := range page.Edges {
		if id, err := shopify.ParseProductID(edge.Node.ID); err == nil {
			productIDs = append(productIDs, id)
		}
	}

	shop, _ := shopFrom(c)
	videosByProduct := map[int64][]models.ExtendedInfo{}
	if len(productIDs) > 0 {
		rows, err := h.infos.ListByProducts(shop, productIDs)
		if err != nil {
			h.logger.Error("Failed to load cached videos: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch products"})
			return
		}
		for _, row := range rows {
			videosByProduct[row.ProductID] = append(videosByProduct[row.ProductID], row)
		}
	}

	products := make([]listedProduct, 0, len(page.Edges))
	endCursor := ""
	for _, edge := range page.Edges {
		id, _ := shopify.ParseProductID(edge.Node.ID)
		products = append(products, listedProduct{
			ProductNode: edge.Node,
			Videos:      videosByProduct[id],
		})
		endCursor = edge.Cursor
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"products":  products,
		"endCursor": endCursor,
		"pageInfo":  page.PageInfo,
	})
}

// ListVideos returns the cached video rows and the saved carousel
// selection for one product.
func (h *ProductHandler) ListVideos(c *gin.Context) {
	productID, err := shopify.ParseProductID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid product id"})
		return
	}

	shop, _ := shopFrom(c)
	videos, err := h.infos.ListByProduct(shop, productID)
	if err != nil {
		h.logger.Error("Failed to load videos for product %d: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch videos"})
		return
	}

	admin := adminClient(c, h.config, h.logger)
	selection, err := admin.GetVideoSelection(c.Request.Context(), shopify.ProductGID(productID))
	if err != nil {
		h.logger.Error("Failed to load video selection for product %d: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch video selection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"videos":         videos,
		"savedSelection": selection,
	})
}

// UpdateVideos applies one carousel action: persisting the selected
// list or promoting a new main video.
func (h *ProductHandler) UpdateVideos(c *gin.Context) {
	var request struct {
		Action    string   `json:"action" binding:"required"`
		VideoURLs []string `json:"videoUrls"`
		VideoURL  string   `json:"videoUrl"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "action is required"})
		return
	}

	shop, _ := shopFrom(c)
	admin := adminClient(c, h.config, h.logger)

	switch request.Action {
	case "saveSelection":
		if err := h.reconciler.SaveVideoSelection(c.Request.Context(), admin, c.Param("id"), request.VideoURLs); err != nil {
			h.logger.Error("Failed to save video selection: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save selection"})
			return
		}
	case "setMain":
		productID, err := shopify.ParseProductID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid product id"})
			return
		}
		if request.VideoURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "videoUrl is required"})
			return
		}
		if err := h.reconciler.SetMainVideo(c.Request.Context(), admin, shop, productID, request.VideoURL); err != nil {
			h.logger.Error("Failed to set main video: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to set main video"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown action: " + request.Action})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autovid/internal/analytics"
	"autovid/internal/config"
	"autovid/internal/logger"
)

type AnalyticsHandler struct {
	aggregator *analytics.Aggregator
	config     *config.Config
	logger     *logger.Logger
}

func NewAnalyticsHandler(agg *analytics.Aggregator, cfg *config.Config, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{aggregator: agg, config: cfg, logger: logger}
}

// Get computes the analytics view for the requested time window
// (lastWeek by default).
func (h *AnalyticsHandler) Get(c *gin.Context) {
	window := analytics.Window(c.DefaultQuery("time", string(analytics.WindowLastWeek)))
	switch window {
	case analytics.WindowLastWeek, analytics.WindowLastMonth, analytics.WindowAll:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown time window"})
		return
	}

	shop, _ := shopFrom(c)
	admin := adminClient(c, h.config, h.logger)

	metrics, err := h.aggregator.ComputeMetrics(c.Request.Context(), admin, shop, window)
	if err != nil {
		h.logger.Error("Failed to compute analytics for %s: %v", shop, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to compute analytics"})
		return
	}

	hasSubscription, err := admin.HasActiveSubscription(c.Request.Context())
	if err != nil {
		// The dashboard still renders without the billing flag.
		h.logger.Error("Failed to check subscription for %s: %v", shop, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"analytics":       metrics,
		"hasSubscription": hasSubscription,
	})
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"autovid/internal/logger"
	"autovid/internal/store"
)

// Context keys set by ShopAuth for downstream handlers.
const (
	CtxShopDomain  = "shopDomain"
	CtxAccessToken = "accessToken"
)

// ShopAuth resolves the calling shop from the X-Shop-Domain header
// (or a shop query parameter) against stored credentials. Routes
// behind it can assume both context keys are set.
func ShopAuth(shops *store.ShopStore, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		domain := c.GetHeader("X-Shop-Domain")
		if domain == "" {
			domain = c.Query("shop")
		}
		if domain == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Missing shop domain",
			})
			return
		}

		shop, err := shops.Get(domain)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"error":   "Shop is not installed",
				})
				return
			}
			logger.Error("Failed to look up shop %s: %v", domain, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to resolve shop",
			})
			return
		}

		c.Set(CtxShopDomain, shop.Domain)
		c.Set(CtxAccessToken, shop.AccessToken)
		c.Next()
	}
}

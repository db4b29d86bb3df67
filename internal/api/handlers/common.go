package handlers

import (
	"github.com/gin-gonic/gin"

	"autovid/internal/api/middleware"
	"autovid/internal/config"
	"autovid/internal/logger"
	"autovid/internal/services/shopify"
)

// shopFrom reads the shop credentials resolved by the ShopAuth
// middleware.
func shopFrom(c *gin.Context) (domain, accessToken string) {
	return c.GetString(middleware.CtxShopDomain), c.GetString(middleware.CtxAccessToken)
}

// adminClient builds a per-request Admin API client for the calling
// shop.
func adminClient(c *gin.Context, cfg *config.Config, logger *logger.Logger) *shopify.Client {
	domain, accessToken := shopFrom(c)
	return shopify.NewClient(domain, accessToken, cfg.ShopifyAPIVersion, logger)
}

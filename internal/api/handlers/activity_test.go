package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"autovid/internal/api/middleware"
	"autovid/internal/logger"
	"autovid/internal/models"
	"autovid/internal/store"
)

const testShop = "demo.myshopify.com"

func activityRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "handlers.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Shop{},
		&models.Activity{},
		&models.PlayCount{},
		&models.PageView{},
	))

	shops := store.NewShopStore(db)
	require.NoError(t, shops.Upsert(testShop, "token"))

	log := logger.New("error")
	handler := NewActivityHandler(store.NewActivityStore(db), log)

	router := gin.New()
	authed := router.Group("/api")
	authed.Use(middleware.ShopAuth(shops, log))
	authed.POST("/update-videocount", handler.UpdateVideoCount)
	authed.POST("/update-pageview", handler.UpdatePageView)
	return router, db
}

func postJSON(router *gin.Engine, path, shop, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if shop != "" {
		req.Header.Set("X-Shop-Domain", shop)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateVideoCount(t *testing.T) {
	router, _ := activityRouter(t)

	body := `{"productId": 42, "videoUrl": "https://youtube.com/embed/aaaaaaaaaaa"}`

	rec := postJSON(router, "/api/update-videocount", testShop, body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(router, "/api/update-videocount", testShop, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success   bool  `json:"success"`
		PlayCount int64 `json:"playCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, int64(2), response.PlayCount)
}

func TestUpdatePageView(t *testing.T) {
	router, _ := activityRouter(t)

	rec := postJSON(router, "/api/update-pageview", testShop,
		`{"productId": 42, "pageType": "product", "pageHandle": "blue-snowboard"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success   bool  `json:"success"`
		ViewCount int64 `json:"viewCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, int64(1), response.ViewCount)
}

func TestShopAuth(t *testing.T) {
	router, _ := activityRouter(t)

	t.Run("missing shop header", func(t *testing.T) {
		rec := postJSON(router, "/api/update-pageview", "", `{"productId": 42}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown shop", func(t *testing.T) {
		rec := postJSON(router, "/api/update-pageview", "stranger.myshopify.com", `{"productId": 42}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := postJSON(router, "/api/update-pageview", testShop, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

package analytics

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"autovid/internal/logger"
	"autovid/internal/models"
	"autovid/internal/services/shopify"
	"autovid/internal/store"
)

const testShop = "demo.myshopify.com"

type fakeCatalog struct {
	pages       []shopify.SummaryPage
	pageIndex   int
	details     map[string]shopify.ProductDetail
	detailCalls [][]string
	untagged    []shopify.OpportunityNode
	total       int
	tagged      int
}

func (f *fakeCatalog) SearchProductSummaries(ctx context.Context, query, cursor string, first int) (*shopify.SummaryPage, error) {
	if f.pageIndex >= len(f.pages) {
		return &shopify.SummaryPage{}, nil
	}
	page := f.pages[f.pageIndex]
	f.pageIndex++
	return &page, nil
}

func (f *fakeCatalog) ProductDetails(ctx context.Context, gids []string) ([]shopify.ProductDetail, error) {
	f.detailCalls = append(f.detailCalls, gids)
	details := make([]shopify.ProductDetail, 0, len(gids))
	for _, gid := range gids {
		if detail, ok := f.details[gid]; ok {
			details = append(details, detail)
		}
	}
	return details, nil
}

func (f *fakeCatalog) ListUntaggedProducts(ctx context.Context, first int) ([]shopify.OpportunityNode, error) {
	return f.untagged, nil
}

func (f *fakeCatalog) ProductCounts(ctx context.Context) (int, int, error) {
	return f.total, f.tagged, nil
}

func summaryPage(hasNext bool, gids ...string) shopify.SummaryPage {
	page := shopify.SummaryPage{PageInfo: shopify.PageInfo{HasNextPage: hasNext}}
	for _, gid := range gids {
		page.Edges = append(page.Edges, shopify.SummaryEdge{
			Cursor: gid,
			Node:   shopify.ProductSummary{ID: gid},
		})
	}
	return page
}

func newTestAggregator(t *testing.T, batchSize int) (*Aggregator, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "analytics.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ExtendedInfo{},
		&models.Activity{},
		&models.PlayCount{},
		&models.PageView{},
	))

	agg := New(store.NewActivityStore(db), store.NewExtendedInfoStore(db), batchSize, 0, logger.New("error"))
	return agg, db
}

func addActivity(t *testing.T, db *gorm.DB, productID int64, kind models.ActivityType, videoURL string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&models.Activity{
			Shop:      testShop,
			ProductID: productID,
			Type:      kind,
			VideoURL:  videoURL,
		}).Error)
	}
}

func TestComputeMetrics(t *testing.T) {
	agg, db := newTestAggregator(t, 20)

	addActivity(t, db, 1, models.ActivityVideoPlay, "https://youtube.com/embed/aaaaaaaaaaa", 10)
	addActivity(t, db, 1, models.ActivityPageView, "", 100)
	addActivity(t, db, 2, models.ActivityPageView, "", 50)

	catalog := &fakeCatalog{
		pages: []shopify.SummaryPage{summaryPage(false,
			"gid://shopify/Product/1",
			"gid://shopify/Product/2",
		)},
		details: map[string]shopify.ProductDetail{
			"gid://shopify/Product/1": {ID: "gid://shopify/Product/1", Title: "Blue Snowboard"},
			"gid://shopify/Product/2": {ID: "gid://shopify/Product/2", Title: "Red Snowboard"},
		},
		total:  10,
		tagged: 2,
	}

	metrics, err := agg.ComputeMetrics(context.Background(), catalog, testShop, WindowAll)
	require.NoError(t, err)

	assert.Equal(t, 2, metrics.TaggedCount)
	assert.Equal(t, 10, metrics.TotalPlays)
	assert.Equal(t, 150, metrics.TotalViews)
	// 10 plays over 150 views rounds to 7; an average of the two
	// per-product rates would give 5.
	assert.Equal(t, 7, metrics.PlayRate)
	assert.Equal(t, "20", metrics.CoveragePercent)

	require.Len(t, metrics.Products, 2)
	assert.Equal(t, int64(1), metrics.Products[0].ID)
	assert.Equal(t, 10, metrics.Products[0].PlayRate)
	assert.Equal(t, 0, metrics.Products[1].PlayRate)
}

func TestComputeMetricsSorting(t *testing.T) {
	agg, db := newTestAggregator(t, 20)

	// Same play count: views break the tie.
	addActivity(t, db, 1, models.ActivityVideoPlay, "https://youtube.com/embed/aaaaaaaaaaa", 3)
	addActivity(t, db, 1, models.ActivityPageView, "", 5)
	addActivity(t, db, 2, models.ActivityVideoPlay, "https://youtube.com/embed/bbbbbbbbbbb", 3)
	addActivity(t, db, 2, models.ActivityPageView, "", 9)
	addActivity(t, db, 3, models.ActivityVideoPlay, "https://youtube.com/embed/ccccccccccc", 8)

	catalog := &fakeCatalog{
		pages: []shopify.SummaryPage{summaryPage(false,
			"gid://shopify/Product/1",
			"gid://shopify/Product/2",
			"gid://shopify/Product/3",
		)},
		details: map[string]shopify.ProductDetail{
			"gid://shopify/Product/1": {ID: "gid://shopify/Product/1"},
			"gid://shopify/Product/2": {ID: "gid://shopify/Product/2"},
			"gid://shopify/Product/3": {ID: "gid://shopify/Product/3"},
		},
		total:  3,
		tagged: 3,
	}

	metrics, err := agg.ComputeMetrics(context.Background(), catalog, testShop, WindowAll)
	require.NoError(t, err)

	require.Len(t, metrics.Products, 3)
	assert.Equal(t, int64(3), metrics.Products[0].ID)
	assert.Equal(t, int64(2), metrics.Products[1].ID)
	assert.Equal(t, int64(1), metrics.Products[2].ID)
}

func TestComputeMetricsWalksAllPagesInBatches(t *testing.T) {
	agg, _ := newTestAggregator(t, 2)

	catalog := &fakeCatalog{
		pages: []shopify.SummaryPage{
			summaryPage(true, "gid://shopify/Product/1", "gid://shopify/Product/2"),
			summaryPage(false, "gid://shopify/Product/3"),
		},
		details: map[string]shopify.ProductDetail{
			"gid://shopify/Product/1": {ID: "gid://shopify/Product/1"},
			"gid://shopify/Product/2": {ID: "gid://shopify/Product/2"},
			"gid://shopify/Product/3": {ID: "gid://shopify/Product/3"},
		},
		total:  3,
		tagged: 3,
	}

	metrics, err := agg.ComputeMetrics(context.Background(), catalog, testShop, WindowAll)
	require.NoError(t, err)

	assert.Equal(t, 3, metrics.TaggedCount)
	assert.Len(t, metrics.Products, 3)
	// Batch size two splits three products into two detail calls.
	require.Len(t, catalog.detailCalls, 2)
	assert.Len(t, catalog.detailCalls[0], 2)
	assert.Len(t, catalog.detailCalls[1], 1)
}

func TestComputeMetricsOpportunities(t *testing.T) {
	agg, db := newTestAggregator(t, 20)

	addActivity(t, db, 11, models.ActivityPageView, "", 2)
	addActivity(t, db, 12, models.ActivityPageView, "", 9)

	withVideo := &shopify.MetafieldValue{Value: "https://youtube.com/embed/aaaaaaaaaaa"}
	catalog := &fakeCatalog{
		pages: []shopify.SummaryPage{summaryPage(false)},
		untagged: []shopify.OpportunityNode{
			{ID: "gid://shopify/Product/11", Title: "Low traffic"},
			{ID: "gid://shopify/Product/12", Title: "High traffic"},
			{ID: "gid://shopify/Product/13", Title: "Already has video", VideoMetafield: withVideo},
			{ID: "gid://shopify/Product/14", Title: "Out of stock", TracksInventory: true, TotalInventory: 0},
		},
		total:  4,
		tagged: 0,
	}

	metrics, err := agg.ComputeMetrics(context.Background(), catalog, testShop, WindowAll)
	require.NoError(t, err)

	require.Len(t, metrics.Opportunities, 2)
	assert.Equal(t, int64(12), metrics.Opportunities[0].ID)
	assert.Equal(t, 9, metrics.Opportunities[0].PDPViews)
	assert.Equal(t, int64(11), metrics.Opportunities[1].ID)
	assert.Equal(t, "0", metrics.CoveragePercent)
}

func TestFormatCoverage(t *testing.T) {
	assert.Equal(t, "37.5", FormatCoverage(3, 8))
	assert.Equal(t, "37", FormatCoverage(37, 100))
	assert.Equal(t, "100", FormatCoverage(8, 8))
	assert.Equal(t, "0", FormatCoverage(0, 10))
	assert.Equal(t, "0", FormatCoverage(0, 0))
}

func TestRate(t *testing.T) {
	assert.Equal(t, 10, rate(10, 100))
	assert.Equal(t, 7, rate(10, 150))
	assert.Equal(t, 0, rate(0, 50))
	assert.Equal(t, 0, rate(5, 0))
}

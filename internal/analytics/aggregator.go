package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"autovid/internal/logger"
	"autovid/internal/models"
	"autovid/internal/services/shopify"
	"autovid/internal/store"
)

// Window selects the activity time range.
type Window string

const (
	WindowLastWeek  Window = "lastWeek"
	WindowLastMonth Window = "lastMonth"
	WindowAll       Window = "all"
)

// Since returns the window's lower bound, zero for all-time.
func (w Window) Since(now time.Time) time.Time {
	switch w {
	case WindowLastMonth:
		return now.Add(-30 * 24 * time.Hour)
	case WindowAll:
		return time.Time{}
	default:
		return now.Add(-7 * 24 * time.Hour)
	}
}

// Catalog is the slice of the Shopify client the aggregator reads
// from. All access is read-only.
type Catalog interface {
	SearchProductSummaries(ctx context.Context, query, cursor string, first int) (*shopify.SummaryPage, error)
	ProductDetails(ctx context.Context, gids []string) ([]shopify.ProductDetail, error)
	ListUntaggedProducts(ctx context.Context, first int) ([]shopify.OpportunityNode, error)
	ProductCounts(ctx context.Context) (total, tagged int, err error)
}

type ProductMetrics struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	PreviewURL   string    `json:"onlineStorePreviewUrl"`
	ImageURL     string    `json:"imageUrl"`
	VideoURL     string    `json:"videoUrl"`
	PlayCount    int       `json:"playCount"`
	PDPViews     int       `json:"pdpViews"`
	PlayRate     int       `json:"playRate"`
	Summary      string    `json:"summary"`
	Highlights   string    `json:"highlights"`
	SourceMethod string    `json:"sourceMethod"`
	IsMain       bool      `json:"isMain"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Opportunity is a saleable product without a demo video, ranked by
// page views to prioritize sourcing effort.
type Opportunity struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	ImageURL   string `json:"imageUrl"`
	PreviewURL string `json:"onlineStorePreviewUrl"`
	PDPViews   int    `json:"pdpViews"`
}

type Metrics struct {
	TaggedCount     int              `json:"count"`
	Products        []ProductMetrics `json:"products"`
	Opportunities   []Opportunity    `json:"noVideoProducts"`
	TotalPlays      int              `json:"totalPlays"`
	TotalViews      int              `json:"totalViews"`
	PlayRate        int              `json:"playRate"`
	CoveragePercent string           `json:"coveragePercent"`
}

// Aggregator computes read-only play/coverage metrics. It never
// writes; the reconciler owns all mutations.
type Aggregator struct {
	activities *store.ActivityStore
	infos      *store.ExtendedInfoStore
	logger     *logger.Logger

	pageSize   int
	batchSize  int
	batchDelay time.Duration
}

func New(activities *store.ActivityStore, infos *store.ExtendedInfoStore, batchSize int, batchDelay time.Duration, logger *logger.Logger) *Aggregator {
	if batchSize <= 0 {
		batchSize = 20
	}
	return &Aggregator{
		activities: activities,
		infos:      infos,
		logger:     logger,
		pageSize:   200,
		batchSize:  batchSize,
		batchDelay: batchDelay,
	}
}

// ComputeMetrics builds the analytics view for one shop and window.
// External fetch failures propagate; nothing is cached or retried.
func (a *Aggregator) ComputeMetrics(ctx context.Context, catalog Catalog, shop string, window Window) (*Metrics, error) {
	activities, err := a.activities.ListSince(shop, window.Since(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	type playKey struct {
		productID int64
		videoURL  string
	}
	playCounts := map[playKey]int{}
	pageViews := map[int64]int{}
	for _, act := range activities {
		switch act.Type {
		case models.ActivityVideoPlay:
			playCounts[playKey{act.ProductID, act.VideoURL}]++
		case models.ActivityPageView:
			pageViews[act.ProductID]++
		}
	}

	// Per product: total plays plus the most-played video for display.
	playsByProduct := map[int64]int{}
	topVideo := map[int64]string{}
	topVideoPlays := map[int64]int{}
	for key, count := range playCounts {
		playsByProduct[key.productID] += count
		if count > topVideoPlays[key.productID] {
			topVideoPlays[key.productID] = count
			topVideo[key.productID] = key.videoURL
		}
	}

	extendedRows, err := a.infos.ListByShop(shop)
	if err != nil {
		return nil, fmt.Errorf("failed to load video cache: %w", err)
	}
	extendedByProduct := map[int64]models.ExtendedInfo{}
	for _, row := range extendedRows {
		existing, ok := extendedByProduct[row.ProductID]
		if !ok || (row.IsMain && !existing.IsMain) {
			extendedByProduct[row.ProductID] = row
		}
	}

	taggedGIDs, err := a.collectTaggedProducts(ctx, catalog)
	if err != nil {
		return nil, err
	}

	products, err := a.buildProductMetrics(ctx, catalog, taggedGIDs, playsByProduct, topVideo, pageViews, extendedByProduct)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(products, func(i, j int) bool {
		if products[i].PlayCount != products[j].PlayCount {
			return products[i].PlayCount > products[j].PlayCount
		}
		return products[i].PDPViews > products[j].PDPViews
	})

	// Store-wide rate is total plays over total views, not an average
	// of per-product rates: small-sample products would distort it.
	totalPlays, totalViews := 0, 0
	for _, p := range products {
		totalPlays += p.PlayCount
		totalViews += p.PDPViews
	}

	opportunities, err := a.collectOpportunities(ctx, catalog, pageViews)
	if err != nil {
		return nil, err
	}

	total, tagged, err := catalog.ProductCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return &Metrics{
		TaggedCount:     len(taggedGIDs),
		Products:        products,
		Opportunities:   opportunities,
		TotalPlays:      totalPlays,
		TotalViews:      totalViews,
		PlayRate:        rate(totalPlays, totalViews),
		CoveragePercent: FormatCoverage(tagged, total),
	}, nil
}

// collectTaggedProducts walks every page of the tagged catalog.
func (a *Aggregator) collectTaggedProducts(ctx context.Context, catalog Catalog) ([]string, error) {
	var gids []string
	seen := map[string]bool{}
	cursor := ""
	for {
		page, err := catalog.SearchProductSummaries(ctx, "tag:"+videoTag, cursor, a.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list tagged products: %w", err)
		}
		for _, edge := range page.Edges {
			if !seen[edge.Node.ID] {
				seen[edge.Node.ID] = true
				gids = append(gids, edge.Node.ID)
			}
		}
		if !page.PageInfo.HasNextPage || len(page.Edges) == 0 {
			break
		}
		cursor = page.Edges[len(page.Edges)-1].Cursor
	}
	return gids, nil
}

// buildProductMetrics fetches product details in fixed-size batches
// with a delay between them to stay under the Admin API rate limit.
func (a *Aggregator) buildProductMetrics(
	ctx context.Context,
	catalog Catalog,
	gids []string,
	playsByProduct map[int64]int,
	topVideo map[int64]string,
	pageViews map[int64]int,
	extendedByProduct map[int64]models.ExtendedInfo,
) ([]ProductMetrics, error) {
	products := make([]ProductMetrics, 0, len(gids))
	for start := 0; start < len(gids); start += a.batchSize {
		end := start + a.batchSize
		if end > len(gids) {
			end = len(gids)
		}
		if start > 0 && a.batchDelay > 0 {
			time.Sleep(a.batchDelay)
		}

		details, err := catalog.ProductDetails(ctx, gids[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to fetch product details: %w", err)
		}
		for _, detail := range details {
			productID, err := shopify.ParseProductID(detail.ID)
			if err != nil {
				a.logger.Warn("skipping product with bad id %q: %v", detail.ID, err)
				continue
			}
			extended := extendedByProduct[productID]
			plays := playsByProduct[productID]
			views := pageViews[productID]

			videoURL := topVideo[productID]
			if videoURL == "" {
				videoURL = extended.VideoURL
			}
			summary := extended.AISummary
			if summary == "" {
				summary = detail.Summary.Get()
			}

			products = append(products, ProductMetrics{
				ID:           productID,
				Title:        detail.Title,
				PreviewURL:   detail.OnlineStorePreviewURL,
				ImageURL:     detail.FeaturedMedia.ImageURL(),
				VideoURL:     videoURL,
				PlayCount:    plays,
				PDPViews:     views,
				PlayRate:     rate(plays, views),
				Summary:      summary,
				Highlights:   extended.Highlights,
				SourceMethod: string(extended.SourceMethod),
				IsMain:       extended.IsMain,
				CreatedAt:    extended.CreatedAt,
			})
		}
	}
	return products, nil
}

func (a *Aggregator) collectOpportunities(ctx context.Context, catalog Catalog, pageViews map[int64]int) ([]Opportunity, error) {
	nodes, err := catalog.ListUntaggedProducts(ctx, 250)
	if err != nil {
		return nil, fmt.Errorf("failed to list untagged products: %w", err)
	}

	opportunities := make([]Opportunity, 0)
	for _, node := range nodes {
		if strings.TrimSpace(node.VideoMetafield.Get()) != "" {
			continue
		}
		if !node.AvailableForSale() {
			continue
		}
		productID, err := shopify.ParseProductID(node.ID)
		if err != nil {
			continue
		}
		opportunities = append(opportunities, Opportunity{
			ID:         productID,
			Title:      node.Title,
			ImageURL:   node.FeaturedMedia.ImageURL(),
			PreviewURL: node.OnlineStorePreviewURL,
			PDPViews:   pageViews[productID],
		})
	}
	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].PDPViews > opportunities[j].PDPViews
	})
	return opportunities, nil
}

// rate is plays over views as a rounded percentage, zero when there
// are no views.
func rate(plays, views int) int {
	if views <= 0 {
		return 0
	}
	return int(math.Round(float64(plays) / float64(views) * 100))
}

// FormatCoverage renders tagged/total as a percentage with one
// decimal, dropping a trailing ".0" ("37", "37.5", "0").
func FormatCoverage(tagged, total int) string {
	if total == 0 {
		return "0"
	}
	pct := float64(tagged) / float64(total) * 100
	formatted := strconv.FormatFloat(pct, 'f', 1, 64)
	return strings.TrimSuffix(formatted, ".0")
}

const videoTag = "youtubevideo"

package shopify

import (
	"fmt"
	"strings"
)

// Metafield namespace and keys owned by this app on Shopify products.
const MetafieldNamespace = "custom"

const (
	KeyDemoVideo      = "youtube_demo_video"
	KeyDemoSummary    = "youtube_demo_summary"
	KeyDemoHighlights = "youtube_demo_highlights"
	KeyVideoSource    = "video_source"
	KeyVideosList     = "youtube_videos_list"
)

// DemoMetafieldKeys are the keys removed when a video is deleted.
var DemoMetafieldKeys = []string{KeyDemoVideo, KeyVideoSource, KeyDemoHighlights, KeyDemoSummary}

// App-installation metafield marking completed onboarding.
const (
	AppMetafieldNamespace     = "Auto-Video"
	AppMetafieldKeyOnboarding = "app_onboarding"
)

type MetafieldInput struct {
	OwnerID   string `json:"ownerId,omitempty"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

type MetafieldValue struct {
	Value string `json:"value"`
}

func (m *MetafieldValue) Get() string {
	if m == nil {
		return ""
	}
	return m.Value
}

type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrorsError carries Shopify mutation userErrors. These are
// upstream user errors, not transport failures: callers log them and
// surface the message text.
type UserErrorsError struct {
	Action string
	Errors []UserError
}

func (e *UserErrorsError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		if field := strings.Join(ue.Field, "."); field != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", field, ue.Message))
			continue
		}
		parts = append(parts, ue.Message)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("shopify %s failed with user errors", e.Action)
	}
	return fmt.Sprintf("shopify %s failed: %s", e.Action, strings.Join(parts, "; "))
}

type ProductBrief struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Vendor      string `json:"vendor"`
	ProductType string `json:"productType"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// MediaPreview mirrors the featuredMedia { preview { image { url } } }
// selection shape.
type MediaPreview struct {
	Preview *struct {
		Image *Image `json:"image"`
	} `json:"preview"`
}

func (m *MediaPreview) ImageURL() string {
	if m == nil || m.Preview == nil || m.Preview.Image == nil {
		return ""
	}
	return m.Preview.Image.URL
}

// ProductNode is the full listing selection used by the product grid.
type ProductNode struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	Vendor                string          `json:"vendor"`
	Status                string          `json:"status"`
	ProductType           string          `json:"productType"`
	Handle                string          `json:"handle"`
	CreatedAt             string          `json:"createdAt"`
	Tags                  []string        `json:"tags"`
	OnlineStorePreviewURL string          `json:"onlineStorePreviewUrl"`
	Category              *struct {
		Name string `json:"name"`
	} `json:"category"`
	FeaturedImage   *Image          `json:"featuredImage"`
	VideoMetafield  *MetafieldValue `json:"metafield"`
	Summary         *MetafieldValue `json:"summary"`
	Highlights      *MetafieldValue `json:"highlights"`
	VideoSource     *MetafieldValue `json:"video_source"`
	OtherVideos     *MetafieldValue `json:"otherVideos"`
	TotalInventory  int             `json:"totalInventory"`
	TracksInventory bool            `json:"tracksInventory"`
	VariantsCount   *struct {
		Count int `json:"count"`
	} `json:"variantsCount"`
	Variants struct {
		Edges []struct {
			Node struct {
				InventoryQuantity int `json:"inventoryQuantity"`
				InventoryItem     struct {
					Tracked bool `json:"tracked"`
				} `json:"inventoryItem"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type ProductEdge struct {
	Cursor string      `json:"cursor"`
	Node   ProductNode `json:"node"`
}

type PageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

type ProductPage struct {
	Edges    []ProductEdge `json:"edges"`
	PageInfo PageInfo      `json:"pageInfo"`
}

// ProductSummary is the light selection used while walking the tagged
// catalog during analytics.
type ProductSummary struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	FeaturedMedia *MediaPreview `json:"featuredMedia"`
}

type SummaryEdge struct {
	Cursor string         `json:"cursor"`
	Node   ProductSummary `json:"node"`
}

type SummaryPage struct {
	Edges    []SummaryEdge `json:"edges"`
	PageInfo PageInfo      `json:"pageInfo"`
}

// ProductDetail is the batched nodes(ids:) selection for analytics
// detail lookups.
type ProductDetail struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	OnlineStorePreviewURL string          `json:"onlineStorePreviewUrl"`
	FeaturedMedia         *MediaPreview   `json:"featuredMedia"`
	Summary               *MetafieldValue `json:"metafield"`
}

// OpportunityNode is the selection for products lacking a demo video.
type OpportunityNode struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	Tags                  []string        `json:"tags"`
	OnlineStorePreviewURL string          `json:"onlineStorePreviewUrl"`
	TracksInventory       bool            `json:"tracksInventory"`
	TotalInventory        int             `json:"totalInventory"`
	FeaturedMedia         *MediaPreview   `json:"featuredMedia"`
	VideoMetafield        *MetafieldValue `json:"metafield"`
}

// AvailableForSale reports whether the product can currently be sold:
// untracked inventory counts as available.
func (n OpportunityNode) AvailableForSale() bool {
	return !n.TracksInventory || n.TotalInventory > 0
}

type AppMetafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

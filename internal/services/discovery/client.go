package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"autovid/internal/logger"
	"autovid/internal/services/shopify"
)

// ErrNoVideosFound is the service's "nothing matched" payload (it
// reports it with a 404-style body code rather than an HTTP status).
var ErrNoVideosFound = errors.New("no videos found for the requested products")

// Client calls the external video-discovery workflow. The workflow
// writes the product metafields itself and replies with the mutation
// payloads; we decode them into per-product results for
// reconciliation.
type Client struct {
	webhookURL string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(webhookURL string, logger *logger.Logger) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// Result is one product's discovery outcome. UserErrors non-empty
// means the workflow's metafield write failed for that product and
// nothing should be cached locally.
type Result struct {
	ProductID   int64
	Title       string
	Tags        []string
	VideoURL    string
	Summary     string
	Highlights  string
	OtherVideos []string
	UserErrors  []shopify.UserError
}

func (r Result) Failed() bool {
	return len(r.UserErrors) > 0
}

// Wire shapes: the workflow replies with the raw Shopify mutation
// payloads it executed per product.
type rawItem struct {
	Data struct {
		MetafieldsSet struct {
			Metafields []struct {
				Key   string `json:"key"`
				Value string `json:"value"`
			} `json:"metafields"`
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
		ProductUpdate struct {
			Product struct {
				ID    string   `json:"id"`
				Title string   `json:"title"`
				Tags  []string `json:"tags"`
			} `json:"product"`
		} `json:"productUpdate"`
	} `json:"data"`
}

type errorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Fetch asks the workflow to find videos for the given product ids.
func (c *Client) Fetch(ctx context.Context, shop, accessToken string, productIDs []string) ([]Result, error) {
	params := url.Values{}
	for _, id := range productIDs {
		params.Add("ids[]", id)
	}

	body, err := json.Marshal(map[string]interface{}{
		"ids":         productIDs,
		"shop":        shop,
		"accessToken": accessToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.webhookURL+"?"+params.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var payload errorPayload
		if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
			return nil, fmt.Errorf("discovery service: %d - %s", resp.StatusCode, payload.Message)
		}
		return nil, fmt.Errorf("discovery service: %d - %s", resp.StatusCode, string(raw))
	}

	// The workflow signals "nothing found" inside a 200 body.
	var payload errorPayload
	if json.Unmarshal(raw, &payload) == nil && payload.Code == 404 {
		return nil, ErrNoVideosFound
	}

	var items []rawItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		result := Result{
			Title:      item.Data.ProductUpdate.Product.Title,
			Tags:       item.Data.ProductUpdate.Product.Tags,
			UserErrors: item.Data.MetafieldsSet.UserErrors,
		}
		if gid := item.Data.ProductUpdate.Product.ID; gid != "" {
			if id, err := shopify.ParseProductID(gid); err == nil {
				result.ProductID = id
			}
		}
		for _, field := range item.Data.MetafieldsSet.Metafields {
			switch field.Key {
			case shopify.KeyDemoVideo:
				result.VideoURL = field.Value
			case shopify.KeyDemoSummary:
				result.Summary = field.Value
			case shopify.KeyDemoHighlights:
				result.Highlights = field.Value
			case shopify.KeyVideosList:
				var urls []string
				if err := json.Unmarshal([]byte(field.Value), &urls); err != nil {
					c.logger.Warn("discovery: bad %s payload for product %d: %v",
						shopify.KeyVideosList, result.ProductID, err)
					continue
				}
				result.OtherVideos = urls
			}
		}
		results = append(results, result)
	}
	return results, nil
}

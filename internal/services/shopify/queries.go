package shopify

import (
	"context"
	"encoding/json"
	"fmt"
)

const productTagsQuery = `
query GetProductTags($id: ID!) {
  product(id: $id) {
    tags
  }
}`

func (c *Client) GetProductTags(ctx context.Context, productGID string) ([]string, error) {
	var out struct {
		Product *struct {
			Tags []string `json:"tags"`
		} `json:"product"`
	}
	if err := c.do(ctx, productTagsQuery, map[string]interface{}{"id": productGID}, &out); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, fmt.Errorf("product not found: %s", productGID)
	}
	return out.Product.Tags, nil
}

const productBriefQuery = `
query GetProduct($id: ID!) {
  product(id: $id) {
    id
    title
    vendor
    productType
  }
}`

func (c *Client) GetProductBrief(ctx context.Context, productGID string) (ProductBrief, error) {
	var out struct {
		Product *ProductBrief `json:"product"`
	}
	if err := c.do(ctx, productBriefQuery, map[string]interface{}{"id": productGID}, &out); err != nil {
		return ProductBrief{}, err
	}
	if out.Product == nil {
		return ProductBrief{}, fmt.Errorf("product not found: %s", productGID)
	}
	return *out.Product, nil
}

const productUpdateMutation = `
mutation UpdateProduct($input: ProductInput!) {
  productUpdate(input: $input) {
    product {
      id
      tags
    }
    userErrors {
      field
      message
    }
  }
}`

type ProductUpdateInput struct {
	ID         string
	Tags       []string
	Metafields []MetafieldInput
}

// UpdateProduct patches tags and/or metafields on a product. Shopify
// userErrors come back as a *UserErrorsError.
func (c *Client) UpdateProduct(ctx context.Context, input ProductUpdateInput) error {
	gqlInput := map[string]interface{}{"id": input.ID}
	if input.Tags != nil {
		gqlInput["tags"] = input.Tags
	}
	if len(input.Metafields) > 0 {
		gqlInput["metafields"] = input.Metafields
	}

	var out struct {
		ProductUpdate struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"productUpdate"`
	}
	if err := c.do(ctx, productUpdateMutation, map[string]interface{}{"input": gqlInput}, &out); err != nil {
		return err
	}
	if len(out.ProductUpdate.UserErrors) > 0 {
		return &UserErrorsError{Action: "productUpdate", Errors: out.ProductUpdate.UserErrors}
	}
	return nil
}

const metafieldsSetMutation = `
mutation SetMetafields($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      id
      key
      namespace
      value
    }
    userErrors {
      field
      message
    }
  }
}`

func (c *Client) SetMetafields(ctx context.Context, metafields []MetafieldInput) error {
	var out struct {
		MetafieldsSet struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	vars := map[string]interface{}{"metafields": metafields}
	if err := c.do(ctx, metafieldsSetMutation, vars, &out); err != nil {
		return err
	}
	if len(out.MetafieldsSet.UserErrors) > 0 {
		return &UserErrorsError{Action: "metafieldsSet", Errors: out.MetafieldsSet.UserErrors}
	}
	return nil
}

const metafieldsDeleteMutation = `
mutation DeleteMetafields($metafields: [MetafieldIdentifierInput!]!) {
  metafieldsDelete(metafields: $metafields) {
    deletedMetafields {
      key
      namespace
      ownerId
    }
    userErrors {
      field
      message
    }
  }
}`

// DeleteMetafields removes the given keys from a product. Deleting a
// key that was never set is not an error on Shopify's side.
func (c *Client) DeleteMetafields(ctx context.Context, ownerGID string, keys ...string) error {
	identifiers := make([]map[string]interface{}, 0, len(keys))
	for _, key := range keys {
		identifiers = append(identifiers, map[string]interface{}{
			"ownerId":   ownerGID,
			"namespace": MetafieldNamespace,
			"key":       key,
		})
	}

	var out struct {
		MetafieldsDelete struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldsDelete"`
	}
	vars := map[string]interface{}{"metafields": identifiers}
	if err := c.do(ctx, metafieldsDeleteMutation, vars, &out); err != nil {
		return err
	}
	if len(out.MetafieldsDelete.UserErrors) > 0 {
		return &UserErrorsError{Action: "metafieldsDelete", Errors: out.MetafieldsDelete.UserErrors}
	}
	return nil
}

const productSearchQuery = `
query GetProducts($first: Int!, $cursor: String, $sortKey: ProductSortKeys, $reverse: Boolean, $query: String) {
  products(first: $first, after: $cursor, sortKey: $sortKey, reverse: $reverse, query: $query) {
    edges {
      cursor
      node {
        id
        title
        vendor
        status
        productType
        handle
        createdAt
        tags
        onlineStorePreviewUrl
        category {
          name
        }
        featuredImage {
          url
          altText
        }
        metafield(namespace: "custom", key: "youtube_demo_video") {
          value
        }
        summary: metafield(namespace: "custom", key: "youtube_demo_summary") {
          value
        }
        highlights: metafield(namespace: "custom", key: "youtube_demo_highlights") {
          value
        }
        video_source: metafield(namespace: "custom", key: "video_source") {
          value
        }
        otherVideos: metafield(namespace: "custom", key: "youtube_videos_list") {
          value
        }
        totalInventory
        tracksInventory
        variantsCount {
          count
        }
        variants(first: 1) {
          edges {
            node {
              inventoryQuantity
              inventoryItem {
                tracked
              }
            }
          }
        }
      }
    }
    pageInfo {
      hasNextPage
    }
  }
}`

type SearchOptions struct {
	First   int
	Cursor  string
	Query   string
	SortKey string
	Reverse bool
}

func (c *Client) SearchProducts(ctx context.Context, opts SearchOptions) (*ProductPage, error) {
	if opts.First == 0 {
		opts.First = 10
	}
	vars := map[string]interface{}{
		"first":   opts.First,
		"sortKey": SortKey(opts.SortKey),
		"reverse": opts.Reverse,
		"query":   opts.Query,
	}
	if opts.Cursor != "" {
		vars["cursor"] = opts.Cursor
	}
	var out struct {
		Products ProductPage `json:"products"`
	}
	if err := c.do(ctx, productSearchQuery, vars, &out); err != nil {
		return nil, err
	}
	return &out.Products, nil
}

const productSummariesQuery = `
query GetProductSummaries($first: Int!, $cursor: String, $query: String) {
  products(first: $first, after: $cursor, query: $query) {
    pageInfo {
      hasNextPage
    }
    edges {
      cursor
      node {
        id
        title
        featuredMedia {
          preview {
            image {
              url
            }
          }
        }
      }
    }
  }
}`

// SearchProductSummaries walks the catalog with a light selection,
// used by analytics to collect the tagged product set.
func (c *Client) SearchProductSummaries(ctx context.Context, query, cursor string, first int) (*SummaryPage, error) {
	vars := map[string]interface{}{
		"first": first,
		"query": query,
	}
	if cursor != "" {
		vars["cursor"] = cursor
	}
	var out struct {
		Products SummaryPage `json:"products"`
	}
	if err := c.do(ctx, productSummariesQuery, vars, &out); err != nil {
		return nil, err
	}
	return &out.Products, nil
}

const productNodesQuery = `
query GetProductNodes($ids: [ID!]!) {
  nodes(ids: $ids) {
    ... on Product {
      id
      title
      onlineStorePreviewUrl
      featuredMedia {
        preview {
          image {
            url
          }
        }
      }
      metafield(namespace: "custom", key: "youtube_demo_summary") {
        value
      }
    }
  }
}`

// ProductDetails batch-fetches product details by GID via nodes(ids:).
// Missing ids come back as nulls and are dropped.
func (c *Client) ProductDetails(ctx context.Context, gids []string) ([]ProductDetail, error) {
	var out struct {
		Nodes []*ProductDetail `json:"nodes"`
	}
	if err := c.do(ctx, productNodesQuery, map[string]interface{}{"ids": gids}, &out); err != nil {
		return nil, err
	}
	details := make([]ProductDetail, 0, len(out.Nodes))
	for _, node := range out.Nodes {
		if node == nil {
			continue
		}
		details = append(details, *node)
	}
	return details, nil
}

const untaggedProductsQuery = `
query GetUntaggedProducts($first: Int!, $query: String) {
  products(first: $first, query: $query) {
    pageInfo {
      hasNextPage
    }
    edges {
      cursor
      node {
        id
        title
        tags
        onlineStorePreviewUrl
        tracksInventory
        totalInventory
        featuredMedia {
          preview {
            image {
              url
            }
          }
        }
        metafield(namespace: "custom", key: "youtube_demo_video") {
          value
        }
      }
    }
  }
}`

func (c *Client) ListUntaggedProducts(ctx context.Context, first int) ([]OpportunityNode, error) {
	vars := map[string]interface{}{
		"first": first,
		"query": "-tag:youtubevideo",
	}
	var out struct {
		Products struct {
			Edges []struct {
				Node OpportunityNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.do(ctx, untaggedProductsQuery, vars, &out); err != nil {
		return nil, err
	}
	nodes := make([]OpportunityNode, 0, len(out.Products.Edges))
	for _, edge := range out.Products.Edges {
		nodes = append(nodes, edge.Node)
	}
	return nodes, nil
}

const videoSelectionQuery = `
query GetVideoSelection($id: ID!) {
  product(id: $id) {
    metafield(namespace: "custom", key: "youtube_videos_list") {
      value
    }
  }
}`

// GetVideoSelection reads the saved carousel selection. A missing
// metafield is an empty selection, not an error.
func (c *Client) GetVideoSelection(ctx context.Context, productGID string) ([]string, error) {
	var out struct {
		Product *struct {
			Metafield *MetafieldValue `json:"metafield"`
		} `json:"product"`
	}
	if err := c.do(ctx, videoSelectionQuery, map[string]interface{}{"id": productGID}, &out); err != nil {
		return nil, err
	}
	if out.Product == nil || out.Product.Metafield.Get() == "" {
		return nil, nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(out.Product.Metafield.Value), &urls); err != nil {
		return nil, fmt.Errorf("failed to parse video selection: %w", err)
	}
	return urls, nil
}

const productCountsQuery = `
query GetProductCounts {
  total: productsCount(limit: null) {
    count
  }
  tagged: productsCount(query: "tag:youtubevideo", limit: null) {
    count
  }
}`

// ProductCounts returns the total catalog size and the number of
// products tagged youtubevideo.
func (c *Client) ProductCounts(ctx context.Context) (total, tagged int, err error) {
	var out struct {
		Total struct {
			Count int `json:"count"`
		} `json:"total"`
		Tagged struct {
			Count int `json:"count"`
		} `json:"tagged"`
	}
	if err := c.do(ctx, productCountsQuery, nil, &out); err != nil {
		return 0, 0, err
	}
	return out.Total.Count, out.Tagged.Count, nil
}

const activeSubscriptionsQuery = `
query GetActiveSubscriptions {
  currentAppInstallation {
    activeSubscriptions {
      id
      name
      status
    }
  }
}`

func (c *Client) HasActiveSubscription(ctx context.Context) (bool, error) {
	var out struct {
		CurrentAppInstallation struct {
			ActiveSubscriptions []struct {
				Status string `json:"status"`
			} `json:"activeSubscriptions"`
		} `json:"currentAppInstallation"`
	}
	if err := c.do(ctx, activeSubscriptionsQuery, nil, &out); err != nil {
		return false, err
	}
	for _, sub := range out.CurrentAppInstallation.ActiveSubscriptions {
		if sub.Status == "ACTIVE" {
			return true, nil
		}
	}
	return false, nil
}

const appInstallationQuery = `
query GetAppInstallation {
  currentAppInstallation {
    id
    metafields(first: 18) {
      edges {
        node {
          namespace
          key
          value
        }
      }
    }
  }
}`

// AppInstallation returns the app installation id and its app-level
// metafields (onboarding state lives there).
func (c *Client) AppInstallation(ctx context.Context) (string, []AppMetafield, error) {
	var out struct {
		CurrentAppInstallation struct {
			ID         string `json:"id"`
			Metafields struct {
				Edges []struct {
					Node AppMetafield `json:"node"`
				} `json:"edges"`
			} `json:"metafields"`
		} `json:"currentAppInstallation"`
	}
	if err := c.do(ctx, appInstallationQuery, nil, &out); err != nil {
		return "", nil, err
	}
	fields := make([]AppMetafield, 0, len(out.CurrentAppInstallation.Metafields.Edges))
	for _, edge := range out.CurrentAppInstallation.Metafields.Edges {
		fields = append(fields, edge.Node)
	}
	return out.CurrentAppInstallation.ID, fields, nil
}

// SetOnboardingComplete writes the Auto-Video/app_onboarding boolean
// metafield on the app installation.
func (c *Client) SetOnboardingComplete(ctx context.Context, installationGID string) error {
	return c.SetMetafields(ctx, []MetafieldInput{
		{
			OwnerID:   installationGID,
			Namespace: AppMetafieldNamespace,
			Key:       AppMetafieldKeyOnboarding,
			Type:      "boolean",
			Value:     "true",
		},
	})
}

package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"autovid/internal/logger"
	"autovid/internal/models"
	"autovid/internal/services/discovery"
	"autovid/internal/services/shopify"
	"autovid/internal/services/summarizer"
	"autovid/internal/services/youtube"
	"autovid/internal/store"
)

// ErrInvalidVideoLink rejects a manual edit before any Shopify write.
var ErrInvalidVideoLink = errors.New("invalid YouTube URL or video is not embeddable")

// AdminAPI is the slice of the Shopify Admin client the reconciler
// needs. The client is built per shop, so it is passed per call.
type AdminAPI interface {
	GetProductTags(ctx context.Context, productGID string) ([]string, error)
	GetProductBrief(ctx context.Context, productGID string) (shopify.ProductBrief, error)
	UpdateProduct(ctx context.Context, input shopify.ProductUpdateInput) error
	SetMetafields(ctx context.Context, metafields []shopify.MetafieldInput) error
	DeleteMetafields(ctx context.Context, ownerGID string, keys ...string) error
}

type Summarizer interface {
	Summarize(ctx context.Context, req summarizer.Request) (summarizer.Summary, error)
}

type Validator interface {
	Validate(ctx context.Context, videoID string) error
}

// Reconciler keeps Shopify product metadata and the local video cache
// consistent. It is the only writer of both the AutoVid-namespaced
// metafields/tags and the ExtendedInfo rows.
type Reconciler struct {
	infos      *store.ExtendedInfoStore
	prompts    *store.PromptStore
	summarizer Summarizer
	validator  Validator
	logger     *logger.Logger
}

func New(infos *store.ExtendedInfoStore, prompts *store.PromptStore, sum Summarizer, validator Validator, logger *logger.Logger) *Reconciler {
	return &Reconciler{
		infos:      infos,
		prompts:    prompts,
		summarizer: sum,
		validator:  validator,
		logger:     logger,
	}
}

// ApplyDiscovered folds a batch of discovery results into Shopify
// tags and the local cache. Items are isolated: a failing product is
// recorded and the rest proceed.
func (r *Reconciler) ApplyDiscovered(ctx context.Context, admin AdminAPI, shop string, results []discovery.Result) BatchResult {
	var batch BatchResult
	for _, result := range results {
		if result.Failed() {
			err := &shopify.UserErrorsError{Action: "metafieldsSet", Errors: result.UserErrors}
			r.logger.Error("discovery failed for product %d: %v", result.ProductID, err)
			batch.fail(result.ProductID, result.Title, err)
			continue
		}
		product, err := r.applyDiscoveredOne(ctx, admin, shop, result)
		if err != nil {
			r.logger.Error("reconcile failed for product %d: %v", result.ProductID, err)
			batch.fail(result.ProductID, result.Title, err)
			continue
		}
		batch.succeed(*product)
	}
	return batch
}

func (r *Reconciler) applyDiscoveredOne(ctx context.Context, admin AdminAPI, shop string, result discovery.Result) (*UpdatedProduct, error) {
	gid := shopify.ProductGID(result.ProductID)

	// Tag first so the storefront block renders; a tag failure is
	// logged but does not block caching the video.
	if !HasTag(result.Tags, VideoTag) {
		err := admin.UpdateProduct(ctx, shopify.ProductUpdateInput{
			ID:   gid,
			Tags: AddTag(result.Tags, VideoTag),
		})
		if err != nil {
			r.logger.Error("failed to add %s tag to product %d: %v", VideoTag, result.ProductID, err)
		}
	}

	// The discovery result supersedes every cached row: the primary
	// becomes the single main video, candidates follow unmarked.
	primary := models.ExtendedInfo{
		ProductTitle: result.Title,
		VideoURL:     youtube.NormalizeURL(result.VideoURL),
		AISummary:    result.Summary,
		Highlights:   result.Highlights,
		SourceMethod: models.SourceMethodAuto,
		IsMain:       true,
	}
	rows := []models.ExtendedInfo{primary}
	for _, other := range result.OtherVideos {
		other = youtube.NormalizeURL(other)
		if other == primary.VideoURL {
			continue
		}
		rows = append(rows, models.ExtendedInfo{
			ProductTitle: result.Title,
			VideoURL:     other,
			SourceMethod: models.SourceMethodAuto,
		})
	}
	if err := r.infos.ReplaceForProduct(shop, result.ProductID, rows); err != nil {
		return nil, fmt.Errorf("failed to cache videos: %w", err)
	}

	return &UpdatedProduct{
		Shop:         shop,
		ProductID:    result.ProductID,
		ProductTitle: result.Title,
		VideoURL:     primary.VideoURL,
		SourceMethod: string(models.SourceMethodAuto),
		AISummary:    result.Summary,
		Highlights:   result.Highlights,
	}, nil
}

// ManualEditInput carries a merchant-entered video for one product.
// Summary and Highlights are optional; Highlights is a serialized
// JSON list when present.
type ManualEditInput struct {
	ProductID   string
	Link        string
	VideoID     string
	Title       string
	Vendor      string
	ProductType string
	// Mode is "manual" when the merchant opted out of generation.
	Mode       string
	Summary    string
	Highlights string
}

// ApplyManualEdit validates the link, resolves summary/highlights
// (reusing caller-provided text before ever calling the summarizer),
// writes the metafields and tag, and flips the main row locally.
func (r *Reconciler) ApplyManualEdit(ctx context.Context, admin AdminAPI, shop string, input ManualEditInput) (*UpdatedProduct, error) {
	if input.VideoID == "" {
		return nil, ErrInvalidVideoLink
	}
	if err := r.validator.Validate(ctx, input.VideoID); err != nil {
		r.logger.Info("rejected video %s: %v", input.VideoID, err)
		return nil, ErrInvalidVideoLink
	}

	videoURL := youtube.NormalizeURL(youtube.EmbedURL(input.VideoID))

	var summary, highlights string
	deleteSummary := false
	switch {
	case input.Mode == "manual" && (input.Summary == "" || input.Highlights == ""):
		// Merchant chose manual mode without text: store blanks and
		// drop any stale generated summary. No summarizer call.
		summary = ""
		highlights = "[]"
		deleteSummary = true
	case input.Summary != "" && input.Highlights != "":
		// Caller-provided text is used verbatim; the summarizer call
		// is skipped on purpose (it bills per request).
		summary = input.Summary
		highlights = input.Highlights
	default:
		generated, err := r.summarize(ctx, shop, summarizer.Request{
			VideoURL:    input.Link,
			Title:       input.Title,
			Vendor:      input.Vendor,
			ProductType: input.ProductType,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate video summary: %w", err)
		}
		summary = generated.Summary
		highlights = generated.HighlightsJSON()
	}

	gid := shopify.EnsureProductGID(input.ProductID)
	productID, err := shopify.ParseProductID(input.ProductID)
	if err != nil {
		return nil, err
	}

	tags, err := admin.GetProductTags(ctx, gid)
	if err != nil {
		return nil, err
	}

	if deleteSummary {
		if err := admin.DeleteMetafields(ctx, gid, shopify.KeyDemoSummary); err != nil {
			r.logger.Error("failed to delete summary metafield for product %d: %v", productID, err)
		}
	}

	metafieldSummary := summary
	if metafieldSummary == "" {
		// Shopify rejects empty multi_line_text_field values.
		metafieldSummary = " "
	}
	err = admin.UpdateProduct(ctx, shopify.ProductUpdateInput{
		ID:   gid,
		Tags: AddTag(tags, VideoTag),
		Metafields: []shopify.MetafieldInput{
			{Namespace: shopify.MetafieldNamespace, Key: shopify.KeyDemoVideo, Type: "url", Value: videoURL},
			{Namespace: shopify.MetafieldNamespace, Key: shopify.KeyDemoHighlights, Type: "json", Value: highlights},
			{Namespace: shopify.MetafieldNamespace, Key: shopify.KeyDemoSummary, Type: "multi_line_text_field", Value: metafieldSummary},
			{Namespace: shopify.MetafieldNamespace, Key: shopify.KeyVideoSource, Type: "single_line_text_field", Value: string(models.SourceMethodManual)},
		},
	})
	if err != nil {
		return nil, err
	}

	err = r.infos.UpsertMain(shop, productID, models.ExtendedInfo{
		ProductTitle: input.Title,
		VideoURL:     videoURL,
		AISummary:    summary,
		Highlights:   highlights,
		SourceMethod: models.SourceMethodManual,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cache video: %w", err)
	}

	return &UpdatedProduct{
		Shop:         shop,
		ProductID:    productID,
		ProductTitle: input.Title,
		VideoURL:     videoURL,
		SourceMethod: string(models.SourceMethodManual),
		AISummary:    summary,
		Highlights:   highlights,
	}, nil
}

// DeleteVideos strips the app's metafields and tag from each product
// and drops the cached rows. Remote steps are best-effort per item:
// a failed id is reported and the rest continue.
func (r *Reconciler) DeleteVideos(ctx context.Context, admin AdminAPI, shop string, productIDs []string) BatchResult {
	var batch BatchResult
	for _, id := range productIDs {
		gid := shopify.EnsureProductGID(id)
		productID, err := shopify.ParseProductID(id)
		if err != nil {
			batch.fail(0, id, err)
			continue
		}
		if err := r.deleteOne(ctx, admin, shop, gid, productID); err != nil {
			r.logger.Error("delete failed for product %d: %v", productID, err)
			batch.fail(productID, "", err)
			continue
		}
		batch.succeed(UpdatedProduct{Shop: shop, ProductID: productID})
	}
	return batch
}

func (r *Reconciler) deleteOne(ctx context.Context, admin AdminAPI, shop, gid string, productID int64) error {
	tags, err := admin.GetProductTags(ctx, gid)
	if err != nil {
		return err
	}

	// Two-step remote mutation; a failure after the first step leaves
	// the product partially cleaned and is surfaced, not rolled back.
	if err := admin.DeleteMetafields(ctx, gid, shopify.DemoMetafieldKeys...); err != nil {
		return err
	}
	err = admin.UpdateProduct(ctx, shopify.ProductUpdateInput{
		ID:   gid,
		Tags: RemoveTag(tags, VideoTag),
	})
	if err != nil {
		return err
	}

	return r.infos.DeleteForProduct(shop, productID)
}

// SetMainVideo promotes one cached candidate to the product's main
// video. Cached summary/highlights are reused; the summarizer runs at
// most once and only when the cache has neither.
func (r *Reconciler) SetMainVideo(ctx context.Context, admin AdminAPI, shop string, productID int64, videoURL string) error {
	videoURL = youtube.NormalizeURL(videoURL)
	gid := shopify.ProductGID(productID)

	var summary, highlights string
	cached, err := r.infos.GetByVideo(shop, productID, videoURL)
	switch {
	case err == nil:
		summary = cached.AISummary
		highlights = cached.Highlights
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if summary == "" || highlights == "" {
		brief, err := admin.GetProductBrief(ctx, gid)
		if err != nil {
			return err
		}
		generated, err := r.summarize(ctx, shop, summarizer.Request{
			VideoURL:    videoURL,
			Title:       brief.Title,
			Vendor:      brief.Vendor,
			ProductType: brief.ProductType,
		})
		if err != nil {
			// The video still becomes main; it just ships without a
			// summary until one is generated later.
			r.logger.Error("failed to fetch video summary: %v", err)
		} else {
			summary = generated.Summary
			highlights = generated.HighlightsJSON()
		}
	}
	if highlights == "" {
		highlights = "[]"
	}

	err = admin.SetMetafields(ctx, []shopify.MetafieldInput{
		{OwnerID: gid, Namespace: shopify.MetafieldNamespace, Key: shopify.KeyDemoVideo, Type: "single_line_text_field", Value: videoURL},
		{OwnerID: gid, Namespace: shopify.MetafieldNamespace, Key: shopify.KeyDemoSummary, Type: "multi_line_text_field", Value: summary},
		{OwnerID: gid, Namespace: shopify.MetafieldNamespace, Key: shopify.KeyDemoHighlights, Type: "json", Value: highlights},
	})
	if err != nil {
		return err
	}

	return r.infos.SetMain(shop, productID, videoURL, summary, highlights)
}

// SaveVideoSelection persists the carousel's selected video URLs as
// the youtube_videos_list metafield.
func (r *Reconciler) SaveVideoSelection(ctx context.Context, admin AdminAPI, productID string, videoURLs []string) error {
	value, err := json.Marshal(videoURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}
	return admin.SetMetafields(ctx, []shopify.MetafieldInput{
		{
			OwnerID:   shopify.EnsureProductGID(productID),
			Namespace: shopify.MetafieldNamespace,
			Key:       shopify.KeyVideosList,
			Type:      "json",
			Value:     string(value),
		},
	})
}

func (r *Reconciler) summarize(ctx context.Context, shop string, req summarizer.Request) (summarizer.Summary, error) {
	if prompt, err := r.prompts.Get(shop); err == nil {
		req.PromptOverride = prompt.Content
	}
	return r.summarizer.Summarize(ctx, req)
}

package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ErrNotEmbeddable means the video does not exist, is private, or has
// embedding disabled. Callers reject the edit before touching Shopify.
var ErrNotEmbeddable = errors.New("video does not exist or is not embeddable")

var videoIDPattern = regexp.MustCompile(
	`(?:youtube\.com/(?:watch\?v=|embed/|shorts/)|youtu\.be/)([a-zA-Z0-9_-]{11})`,
)

// ExtractVideoID pulls the 11-character video id out of any of the
// usual link forms (watch, embed, shorts, youtu.be).
func ExtractVideoID(link string) (string, bool) {
	match := videoIDPattern.FindStringSubmatch(strings.TrimSpace(link))
	if match == nil {
		return "", false
	}
	return match[1], true
}

// EmbedURL is the canonical form stored in metafields and the local
// cache: no www, /embed/ path.
func EmbedURL(videoID string) string {
	return "https://youtube.com/embed/" + videoID
}

// NormalizeURL strips the www. host variant so equal videos compare
// equal. Idempotent.
func NormalizeURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "www.") {
		return rawURL[len("www."):]
	}
	return strings.Replace(rawURL, "://www.", "://", 1)
}

func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}

// Validator checks video existence against YouTube's public oEmbed
// lookup endpoint.
type Validator struct {
	endpoint   string
	httpClient *http.Client
}

func NewValidator() *Validator {
	return &Validator{
		endpoint: "https://www.youtube.com/oembed",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewValidatorWithEndpoint is used by tests to point at a stub server.
func NewValidatorWithEndpoint(endpoint string) *Validator {
	v := NewValidator()
	v.endpoint = endpoint
	return v
}

// Validate returns ErrNotEmbeddable when the oEmbed lookup rejects
// the video id.
func (v *Validator) Validate(ctx context.Context, videoID string) error {
	lookup := fmt.Sprintf("%s?url=%s&format=json",
		v.endpoint,
		url.QueryEscape("https://www.youtube.com/watch?v="+videoID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookup, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrNotEmbeddable
	}
	return nil
}

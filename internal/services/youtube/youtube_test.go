package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name string
		link string
		want string
		ok   bool
	}{
		{"watch link", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed link", "https://youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"shorts link", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"surrounding whitespace", "  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ", true},
		{"not a video link", "https://www.youtube.com/", "", false},
		{"wrong host", "https://vimeo.com/123456", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tc.link)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEmbedURL(t *testing.T) {
	assert.Equal(t, "https://youtube.com/embed/dQw4w9WgXcQ", EmbedURL("dQw4w9WgXcQ"))
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"strips www", "https://www.youtube.com/embed/abc12345678", "https://youtube.com/embed/abc12345678"},
		{"already bare", "https://youtube.com/embed/abc12345678", "https://youtube.com/embed/abc12345678"},
		{"schemeless www", "www.youtube.com/embed/abc12345678", "youtube.com/embed/abc12345678"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeURL(tc.in)
			assert.Equal(t, tc.want, got)
			// Normalizing twice must not change the result again.
			assert.Equal(t, got, NormalizeURL(got))
		})
	}
}

func TestValidator(t *testing.T) {
	t.Run("embeddable video passes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.RawQuery, "dQw4w9WgXcQ")
			w.Write([]byte(`{"title":"a video"}`))
		}))
		defer server.Close()

		v := NewValidatorWithEndpoint(server.URL)
		require.NoError(t, v.Validate(context.Background(), "dQw4w9WgXcQ"))
	})

	t.Run("missing video is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		v := NewValidatorWithEndpoint(server.URL)
		err := v.Validate(context.Background(), "nosuchvideo")
		assert.ErrorIs(t, err, ErrNotEmbeddable)
	})
}

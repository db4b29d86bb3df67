package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autovid/internal/logger"
)

const workflowResponse = `[
  {
    "data": {
      "metafieldsSet": {
        "metafields": [
          {"key": "youtube_demo_video", "value": "https://youtube.com/embed/aaaaaaaaaaa"},
          {"key": "youtube_demo_summary", "value": "a demo summary"},
          {"key": "youtube_demo_highlights", "value": "[{\"label\":\"intro\",\"timestamp\":\"0:05\"}]"},
          {"key": "youtube_videos_list", "value": "[\"https://youtube.com/embed/bbbbbbbbbbb\"]"}
        ],
        "userErrors": []
      },
      "productUpdate": {
        "product": {
          "id": "gid://shopify/Product/101",
          "title": "Blue Snowboard",
          "tags": ["sale", "youtubevideo"]
        }
      }
    }
  },
  {
    "data": {
      "metafieldsSet": {
        "metafields": [],
        "userErrors": [{"field": ["value"], "message": "metafield limit reached"}]
      },
      "productUpdate": {
        "product": {
          "id": "gid://shopify/Product/102",
          "title": "Red Snowboard",
          "tags": []
        }
      }
    }
  }
]`

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, []string{"101", "102"}, r.URL.Query()["ids[]"])

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "demo.myshopify.com", body["shop"])
		assert.Equal(t, "token", body["accessToken"])

		w.Write([]byte(workflowResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, logger.New("error"))
	results, err := client.Fetch(context.Background(), "demo.myshopify.com", "token", []string{"101", "102"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.False(t, first.Failed())
	assert.Equal(t, int64(101), first.ProductID)
	assert.Equal(t, "Blue Snowboard", first.Title)
	assert.Equal(t, "https://youtube.com/embed/aaaaaaaaaaa", first.VideoURL)
	assert.Equal(t, "a demo summary", first.Summary)
	assert.Equal(t, []string{"https://youtube.com/embed/bbbbbbbbbbb"}, first.OtherVideos)

	second := results[1]
	assert.True(t, second.Failed())
	assert.Equal(t, int64(102), second.ProductID)
	assert.Equal(t, "metafield limit reached", second.UserErrors[0].Message)
}

func TestFetchNoVideosFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 404, "message": "no videos found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, logger.New("error"))
	_, err := client.Fetch(context.Background(), "demo.myshopify.com", "token", []string{"101"})
	assert.ErrorIs(t, err, ErrNoVideosFound)
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"code": 502, "message": "workflow crashed"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, logger.New("error"))
	_, err := client.Fetch(context.Background(), "demo.myshopify.com", "token", []string{"101"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workflow crashed")
}

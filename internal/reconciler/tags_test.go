package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasTag(t *testing.T) {
	assert.True(t, HasTag([]string{"sale", "youtubevideo"}, VideoTag))
	assert.True(t, HasTag([]string{"YouTubeVideo"}, VideoTag))
	assert.False(t, HasTag([]string{"sale"}, VideoTag))
	assert.False(t, HasTag(nil, VideoTag))
}

func TestAddTag(t *testing.T) {
	t.Run("appends when missing", func(t *testing.T) {
		assert.Equal(t, []string{"sale", "youtubevideo"}, AddTag([]string{"sale"}, VideoTag))
	})

	t.Run("idempotent", func(t *testing.T) {
		tags := AddTag([]string{"sale"}, VideoTag)
		assert.Equal(t, tags, AddTag(tags, VideoTag))
	})

	t.Run("case variant counts as present", func(t *testing.T) {
		tags := []string{"YOUTUBEVIDEO"}
		assert.Equal(t, tags, AddTag(tags, VideoTag))
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		original := []string{"a", "b"}
		AddTag(original, VideoTag)
		assert.Equal(t, []string{"a", "b"}, original)
	})
}

func TestRemoveTag(t *testing.T) {
	assert.Equal(t, []string{"sale"}, RemoveTag([]string{"sale", "youtubevideo"}, VideoTag))
	assert.Equal(t, []string{"sale"}, RemoveTag([]string{"sale", "YouTubeVideo"}, VideoTag))
	assert.Equal(t, []string{"sale"}, RemoveTag([]string{"sale"}, VideoTag))
	assert.Empty(t, RemoveTag([]string{"youtubevideo"}, VideoTag))
}

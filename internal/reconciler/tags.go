package reconciler

import "strings"

// VideoTag marks products that carry a demo video. Matching is
// case-insensitive; the canonical lowercase form is what gets written.
const VideoTag = "youtubevideo"

func HasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// AddTag appends tag unless an equivalent (case-insensitive) entry
// already exists.
func AddTag(tags []string, tag string) []string {
	if HasTag(tags, tag) {
		return tags
	}
	return append(append([]string{}, tags...), tag)
}

func RemoveTag(tags []string, tag string) []string {
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

package shopify

import (
	"fmt"
	"strings"
)

// ProductFilter is the typed listing filter. It renders to a Shopify
// search string in one place instead of scattering string
// concatenation through the handlers.
type ProductFilter struct {
	Status     string   `json:"status"`
	Tag        string   `json:"tag"`
	Vendors    []string `json:"vendor"`
	Categories []string `json:"category"`
	// DemoVideo filters on the youtubevideo tag: "true", "false" or
	// empty for no filter.
	DemoVideo string `json:"demoVideo"`
}

// BuildQuery renders the filter plus an optional free-text search
// into a Shopify products search string.
func (f ProductFilter) BuildQuery(search string) string {
	var parts []string

	if f.Status != "" {
		parts = append(parts, "status:"+quoteTerm(f.Status))
	}
	if f.Tag != "" {
		parts = append(parts, "tag:"+quoteTerm(f.Tag))
	}
	if len(f.Vendors) > 0 {
		vendorFilters := make([]string, 0, len(f.Vendors))
		for _, v := range f.Vendors {
			vendorFilters = append(vendorFilters, "vendor:"+quoteTerm(v))
		}
		parts = append(parts, "("+strings.Join(vendorFilters, " OR ")+")")
	}
	if len(f.Categories) > 0 {
		categoryFilters := make([]string, 0, len(f.Categories))
		for _, c := range f.Categories {
			categoryFilters = append(categoryFilters, "category_id:"+lastSegment(c))
		}
		parts = append(parts, "("+strings.Join(categoryFilters, " OR ")+")")
	}
	switch f.DemoVideo {
	case "true":
		parts = append(parts, "tag:youtubevideo")
	case "false":
		parts = append(parts, "-tag:youtubevideo")
	}

	terms := parts
	if search != "" {
		terms = append([]string{search}, parts...)
	}
	return strings.Join(terms, " ")
}

// quoteTerm wraps values containing whitespace or quotes so they
// survive the search syntax.
func quoteTerm(value string) string {
	if strings.ContainsAny(value, " \t\"") {
		return fmt.Sprintf("%q", value)
	}
	return value
}

func lastSegment(gid string) string {
	parts := strings.Split(gid, "/")
	return parts[len(parts)-1]
}

var sortKeyMap = map[string]string{
	"title":     "TITLE",
	"vendor":    "VENDOR",
	"createdAt": "CREATED_AT",
	"inventory": "INVENTORY_TOTAL",
}

// SortKey maps a UI sort column to the ProductSortKeys enum,
// defaulting to CREATED_AT.
func SortKey(key string) string {
	if mapped, ok := sortKeyMap[key]; ok {
		return mapped
	}
	return "CREATED_AT"
}

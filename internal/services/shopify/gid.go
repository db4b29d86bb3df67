package shopify

import (
	"fmt"
	"strconv"
	"strings"
)

const productGIDPrefix = "gid://shopify/Product/"

// ProductGID builds the global id for a numeric product id.
func ProductGID(id int64) string {
	return fmt.Sprintf("%s%d", productGIDPrefix, id)
}

// EnsureProductGID accepts either a numeric id or a full gid.
func EnsureProductGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return productGIDPrefix + id
}

// ParseProductID extracts the numeric product id from a gid or a
// plain numeric string.
func ParseProductID(id string) (int64, error) {
	parts := strings.Split(id, "/")
	numeric, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q: %w", id, err)
	}
	return numeric, nil
}

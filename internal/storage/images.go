package storage

import (
	"encoding/json"
	"strings"
)

// PlaceholderImages is substituted when a product's stored image list is
// missing or cannot be parsed. The response generator treats these the same
// as real catalog URLs.
var PlaceholderImages = []string{
	"https://cdn.rudud.ai/placeholders/product-1.jpg",
	"https://cdn.rudud.ai/placeholders/product-2.jpg",
}

// ParseImageList parses the raw image column of a product or variant.
// Stored values vary in shape: a JSON array of strings, a single bare URL,
// or truncated/malformed JSON written by older importers. Only non-empty
// http(s) URLs are kept. When nothing usable survives, the placeholder set
// is returned and ok is false.
func ParseImageList(raw string) (urls []string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PlaceholderImages, false
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		// Not a JSON array. A bare URL is still acceptable; anything else
		// falls back to placeholders.
		if isImageURL(raw) {
			return []string{raw}, true
		}
		return PlaceholderImages, false
	}

	for _, u := range parsed {
		u = strings.TrimSpace(u)
		if isImageURL(u) {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return PlaceholderImages, false
	}
	return urls, true
}

func isImageURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

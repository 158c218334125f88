package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseImageList_JSONArray(t *testing.T) {
	urls, ok := ParseImageList(`["https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"]`)
	assert.True(t, ok)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, urls)
}

func TestParseImageList_BareURL(t *testing.T) {
	urls, ok := ParseImageList("https://cdn.example.com/a.jpg")
	assert.True(t, ok)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, urls)
}

func TestParseImageList_Empty(t *testing.T) {
	urls, ok := ParseImageList("")
	assert.False(t, ok)
	assert.Equal(t, PlaceholderImages, urls)
}

func TestParseImageList_MalformedJSON(t *testing.T) {
	urls, ok := ParseImageList(`["https://cdn.example.com/a.jpg", "https://cdn`)
	assert.False(t, ok)
	assert.Equal(t, PlaceholderImages, urls)
}

func TestParseImageList_FiltersNonHTTP(t *testing.T) {
	urls, ok := ParseImageList(`["ftp://old.example.com/a.jpg", "https://cdn.example.com/b.jpg", ""]`)
	assert.True(t, ok)
	assert.Equal(t, []string{"https://cdn.example.com/b.jpg"}, urls)
}

func TestParseImageList_AllFiltered(t *testing.T) {
	urls, ok := ParseImageList(`["not-a-url", ""]`)
	assert.False(t, ok)
	assert.Equal(t, PlaceholderImages, urls)
}

func TestParseImageList_NonArrayJSON(t *testing.T) {
	urls, ok := ParseImageList(`{"url": "https://cdn.example.com/a.jpg"}`)
	assert.False(t, ok)
	assert.Equal(t, PlaceholderImages, urls)
}

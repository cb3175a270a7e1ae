package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTolerantTypes(t *testing.T) {
	raw := []byte(`{
		"id": 42,
		"title": "Leather Boots",
		"price": "79.99",
		"category": "shoes",
		"images": ["a.jpg", "b.jpg"],
		"rating": "4.5",
		"reviews": [
			{"reviewerName": "Ada", "rating": 5, "comment": "great"},
			{"reviewerName": "Bob", "rating": "4", "comment": "good"},
			{"reviewerName": "Eve", "rating": "n/a", "comment": "??"}
		]
	}`)

	var rp rawProduct
	require.NoError(t, json.Unmarshal(raw, &rp))
	p := rp.normalize()

	assert.Equal(t, "42", p.ID, "numeric ids normalize to strings")
	assert.Equal(t, 79.99, p.Price, "string prices normalize to numbers")
	require.NotNil(t, p.Rating)
	assert.Equal(t, 4.5, *p.Rating)

	require.Len(t, p.Reviews, 3)
	require.NotNil(t, p.Reviews[0].Rating)
	assert.Equal(t, 5.0, *p.Reviews[0].Rating)
	require.NotNil(t, p.Reviews[1].Rating)
	assert.Equal(t, 4.0, *p.Reviews[1].Rating)
	assert.Nil(t, p.Reviews[2].Rating, "non-numeric review rating degrades to absent")
}

func TestNormalizeStringID(t *testing.T) {
	var rp rawProduct
	require.NoError(t, json.Unmarshal([]byte(`{"id": "1700000000000", "title": "Local"}`), &rp))
	assert.Equal(t, "1700000000000", rp.normalize().ID)
}

func TestNormalizeThumbnailFallsBackToFirstImage(t *testing.T) {
	var rp rawProduct
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "images": ["first.jpg", "second.jpg"]}`), &rp))
	assert.Equal(t, "first.jpg", rp.normalize().Thumbnail)
}

func TestNormalizeFallbacks(t *testing.T) {
	var rp rawProduct
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "price": -5}`), &rp))
	p := rp.normalize()

	assert.Zero(t, p.Price, "negative prices clamp to zero")
	assert.NotNil(t, p.Images, "images always a sequence, possibly empty")
	assert.Empty(t, p.Images)
	assert.Nil(t, p.Rating)
}

func TestIsAllCategories(t *testing.T) {
	assert.True(t, IsAllCategories(""))
	assert.True(t, IsAllCategories(AllCategories))
	assert.False(t, IsAllCategories("shoes"))
}

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/desivar/bridebloom/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestFlowerFilter(t *testing.T) {
	tests := []struct {
		name     string
		opts     ListOptions
		expected bson.M
	}{
		{
			"no filters",
			ListOptions{},
			bson.M{},
		},
		{
			"season and category",
			ListOptions{Season: models.SeasonSpring, Category: models.CategoryBouquet},
			bson.M{"season": models.SeasonSpring, "category": models.CategoryBouquet},
		},
		{
			"color",
			ListOptions{Color: "red"},
			bson.M{"colors": "red"},
		},
		{
			"price range inclusive on both bounds",
			ListOptions{MinPrice: floatPtr(50), MaxPrice: floatPtr(100)},
			bson.M{"price": bson.M{"$gte": 50.0, "$lte": 100.0}},
		},
		{
			"min price only",
			ListOptions{MinPrice: floatPtr(25)},
			bson.M{"price": bson.M{"$gte": 25.0}},
		},
		{
			"search is case-insensitive substring",
			ListOptions{Search: "rose"},
			bson.M{"name": bson.M{"$regex": "rose", "$options": "i"}},
		},
		{
			"search escapes regex metacharacters",
			ListOptions{Search: "r.se"},
			bson.M{"name": bson.M{"$regex": `r\.se`, "$options": "i"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, flowerFilter(tt.opts))
		})
	}
}

func TestFlowerSort(t *testing.T) {
	tests := []struct {
		sortBy   string
		expected bson.D
	}{
		{SortPriceAsc, bson.D{{Key: "price", Value: 1}}},
		{SortPriceDesc, bson.D{{Key: "price", Value: -1}}},
		{SortPopular, bson.D{{Key: "popularity", Value: -1}}},
		{"", bson.D{{Key: "createdAt", Value: -1}}},
		{"nonsense", bson.D{{Key: "createdAt", Value: -1}}},
	}

	for _, tt := range tests {
		t.Run("sortBy="+tt.sortBy, func(t *testing.T) {
			assert.Equal(t, tt.expected, flowerSort(tt.sortBy))
		})
	}
}

package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMin float64
		wantMax float64
		wantOK  bool
	}{
		{name: "bare number is a maximum", input: "70", wantMin: 0, wantMax: 70, wantOK: true},
		{name: "bare decimal", input: "45.99", wantMin: 0, wantMax: 45.99, wantOK: true},
		{name: "under", input: "under 40", wantMin: 0, wantMax: 40, wantOK: true},
		{name: "less than", input: "less than 70", wantMin: 0, wantMax: 70, wantOK: true},
		{name: "under with dollar sign", input: "under $40", wantMin: 0, wantMax: 40, wantOK: true},
		{name: "between", input: "between 50 and 80", wantMin: 50, wantMax: 80, wantOK: true},
		{name: "between reversed bounds", input: "between 80 and 50", wantMin: 50, wantMax: 80, wantOK: true},
		{name: "hyphen range", input: "50-80", wantMin: 50, wantMax: 80, wantOK: true},
		{name: "mixed case", input: "Under 40", wantMin: 0, wantMax: 40, wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "no numbers", input: "cheap please", wantOK: false},
		{name: "under without number", input: "under", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max, ok := ParsePriceRange(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantMin, min)
			assert.Equal(t, tt.wantMax, max)
		})
	}
}

func TestSearchCatalog(t *testing.T) {
	t.Run("partial name matches all variants", func(t *testing.T) {
		got, err := searchCatalog(&SearchProductsInput{Name: "sneakers"})
		require.NoError(t, err)
		assert.Len(t, got, 4)
		for _, p := range got {
			assert.Contains(t, p.Name, "Sneakers")
		}
	})

	t.Run("name with size and price cap", func(t *testing.T) {
		got, err := searchCatalog(&SearchProductsInput{
			Name:       "white sneakers",
			Size:       "8",
			PriceRange: "under 70",
		})
		require.NoError(t, err)
		require.NotEmpty(t, got)
		for _, p := range got {
			assert.LessOrEqual(t, p.Price, 70.0)
			assert.Equal(t, "8", p.Size)
		}
	})

	t.Run("floral skirt size S under 40", func(t *testing.T) {
		got, err := searchCatalog(&SearchProductsInput{
			Name:       "floral skirt",
			Size:       "S",
			PriceRange: "under 40",
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Floral Skirt", got[0].Name)
		assert.Equal(t, "SiteA", got[0].Store)
		assert.True(t, got[0].InStock)
	})

	t.Run("store filter is case-insensitive", func(t *testing.T) {
		got, err := searchCatalog(&SearchProductsInput{Store: "sitec"})
		require.NoError(t, err)
		require.NotEmpty(t, got)
		for _, p := range got {
			assert.Equal(t, "SiteC", p.Store)
		}
	})

	t.Run("between range", func(t *testing.T) {
		got, err := searchCatalog(&SearchProductsInput{PriceRange: "between 50 and 70"})
		require.NoError(t, err)
		require.NotEmpty(t, got)
		for _, p := range got {
			assert.GreaterOrEqual(t, p.Price, 50.0)
			assert.LessOrEqual(t, p.Price, 70.0)
		}
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		got, err := searchCatalog(&SearchProductsInput{Name: "winter parka"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid price range errors", func(t *testing.T) {
		_, err := searchCatalog(&SearchProductsInput{PriceRange: "cheap"})
		assert.Error(t, err)
	})
}

func TestMatchesName(t *testing.T) {
	assert.True(t, matchesName("Canvas White Sneakers", "sneakers"))
	assert.True(t, matchesName("Canvas White Sneakers", "SNEAKERS canvas"))
	assert.True(t, matchesName("Floral Skirt", "floral dress skirt"))
	assert.False(t, matchesName("Floral Skirt", "jacket"))
	assert.False(t, matchesName("Floral Skirt", ""))
}

func TestFindByName(t *testing.T) {
	found := findByName("denim jacket")
	require.Len(t, found, 2)

	assert.Empty(t, findByName("hat"))
}

package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMargin(t *testing.T) {
	margin, ok := ComputeMargin(100, 150)
	require.True(t, ok)
	assert.Equal(t, 50.0, margin.Amount)
	assert.InDelta(t, 33.33, margin.Percent, 0.01)
}

func TestComputeMarginNegative(t *testing.T) {
	// Selling below cost is a defined (negative) margin, not an error.
	margin, ok := ComputeMargin(200, 150)
	require.True(t, ok)
	assert.Equal(t, -50.0, margin.Amount)
	assert.InDelta(t, -33.33, margin.Percent, 0.01)
}

func TestComputeMarginUndefined(t *testing.T) {
	_, ok := ComputeMargin(100, 0)
	assert.False(t, ok, "zero price has no defined margin")

	_, ok = ComputeMargin(100, -5)
	assert.False(t, ok)
}

func TestComputeMarginProperty(t *testing.T) {
	pairs := []struct{ cost, price float64 }{
		{0, 1}, {1, 1}, {99.99, 250}, {10, 1000000},
	}
	for _, p := range pairs {
		margin, ok := ComputeMargin(p.cost, p.price)
		require.True(t, ok)
		assert.InDelta(t, (p.price-p.cost)/p.price*100, margin.Percent, 1e-9)
	}
}

func TestSelectReferenceCard(t *testing.T) {
	t.Run("empty snapshot", func(t *testing.T) {
		_, ok := SelectReferenceCard(nil)
		assert.False(t, ok)
	})

	t.Run("explicit reference wins", func(t *testing.T) {
		cards := []RateCard{
			{ID: "r1", Name: "Standard 2024"},
			{ID: "r2", Name: "Promo", IsReference: true},
		}
		card, ok := SelectReferenceCard(cards)
		require.True(t, ok)
		assert.Equal(t, "r2", card.ID)
	})

	t.Run("standard name fallback", func(t *testing.T) {
		cards := []RateCard{
			{ID: "r1", Name: "Promo 2024"},
			{ID: "r2", Name: "STANDARD Rates"},
		}
		card, ok := SelectReferenceCard(cards)
		require.True(t, ok)
		assert.Equal(t, "r2", card.ID)
	})

	t.Run("first card fallback", func(t *testing.T) {
		cards := []RateCard{
			{ID: "r1", Name: "Promo 2024"},
			{ID: "r2", Name: "Partner 2024"},
		}
		card, ok := SelectReferenceCard(cards)
		require.True(t, ok)
		assert.Equal(t, "r1", card.ID)
	})
}

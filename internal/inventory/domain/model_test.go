package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestNewAverageCost(t *testing.T) {
	t.Run("blends incoming cost", func(t *testing.T) {
		got := NewAverageCost(d("10"), d("10"), d("10"), d("20"))
		assert.True(t, got.Equal(d("15")), "got %s", got)
	})

	t.Run("first receipt sets the cost", func(t *testing.T) {
		got := NewAverageCost(decimal.Zero, decimal.Zero, d("4"), d("7.5"))
		assert.True(t, got.Equal(d("7.5")), "got %s", got)
	})

	t.Run("zero resulting quantity resets to zero", func(t *testing.T) {
		got := NewAverageCost(d("5"), d("10"), d("-5"), decimal.Zero)
		assert.True(t, got.IsZero(), "got %s", got)
	})

	t.Run("negative resulting quantity resets to zero", func(t *testing.T) {
		got := NewAverageCost(d("2"), d("10"), d("-3"), decimal.Zero)
		assert.True(t, got.IsZero(), "got %s", got)
	})

	t.Run("fractional quantities", func(t *testing.T) {
		// (1.5*2 + 0.5*6) / 2 = 3
		got := NewAverageCost(d("1.5"), d("2"), d("0.5"), d("6"))
		assert.True(t, got.Equal(d("3")), "got %s", got)
	})
}

func TestAvailable(t *testing.T) {
	level := InventoryLevel{Quantity: d("10"), ReservedQuantity: d("4")}
	assert.True(t, level.Available().Equal(d("6")))
}

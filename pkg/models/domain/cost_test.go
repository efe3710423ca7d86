package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCost_Arithmetic(t *testing.T) {
	ten := CostFromFloat(10)
	five := CostFromFloat(5)

	sum := ten.Add(five)
	assert.True(t, sum.Known)
	assert.True(t, sum.Amount.Equal(decimal.NewFromInt(15)))

	tripled := five.MulInt(3)
	assert.True(t, tripled.Known)
	assert.True(t, tripled.Amount.Equal(decimal.NewFromInt(15)))
}

func TestCost_UnavailablePropagates(t *testing.T) {
	known := CostFromFloat(10)
	unknown := UnavailableCost()

	assert.False(t, known.Add(unknown).Known)
	assert.False(t, unknown.Add(known).Known)
	assert.False(t, unknown.MulInt(4).Known)
}

func TestCost_LessThan(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Cost
		expected bool
	}{
		{"smaller known wins", CostFromFloat(1), CostFromFloat(2), true},
		{"larger known loses", CostFromFloat(3), CostFromFloat(2), false},
		{"equal is not less", CostFromFloat(2), CostFromFloat(2), false},
		{"unavailable sorts after known", UnavailableCost(), CostFromFloat(2), false},
		{"known sorts before unavailable", CostFromFloat(2), UnavailableCost(), true},
		{"both unavailable", UnavailableCost(), UnavailableCost(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.LessThan(tt.b))
		})
	}
}

func TestCost_String(t *testing.T) {
	assert.Equal(t, "unavailable", UnavailableCost().String())
	assert.Equal(t, "$12.50/month", CostFromFloat(12.5).String())
}

package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grams(v int) *int { return &v }

func TestCartLine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		line    CartLine
		wantErr error
	}{
		{"Valid", CartLine{PartID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(10)}, nil},
		{"CodeOnly", CartLine{PartCode: "ABC", Quantity: 1}, nil},
		{"ZeroQuantity", CartLine{PartID: 1, Quantity: 0}, ErrInvalidQuantity},
		{"NegativePrice", CartLine{PartID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}, ErrNegativePrice},
		{"NoIdentity", CartLine{Quantity: 1}, ErrMissingPart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCart_Subtotal(t *testing.T) {
	cart, err := NewCart([]CartLine{
		{PartID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.105")},
		{PartID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")},
	})
	require.NoError(t, err)

	assert.Equal(t, "25.71", cart.Subtotal().StringFixed(2))
	assert.True(t, (*Cart)(nil).Subtotal().IsZero())
}

func TestCart_CloneIsDeep(t *testing.T) {
	cart := &Cart{Lines: []CartLine{{PartID: 1, Quantity: 1, UnitWeightGrams: grams(1200)}}}

	clone := cart.Clone()
	*clone.Lines[0].UnitWeightGrams = 1
	clone.Lines[0].Quantity = 9

	assert.Equal(t, 1200, *cart.Lines[0].UnitWeightGrams)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestLegacyLine_ToCartLine(t *testing.T) {
	t.Run("RealWeightKept", func(t *testing.T) {
		line := LegacyLine{PartID: 3, Quantity: 1, PartWeight: grams(2300)}.ToCartLine()
		require.NotNil(t, line.UnitWeightGrams)
		assert.Equal(t, 2300, *line.UnitWeightGrams)
	})

	t.Run("LegacyDefaultBecomesUnresolved", func(t *testing.T) {
		line := LegacyLine{PartID: 3, Quantity: 1, PartWeight: grams(500)}.ToCartLine()
		assert.Nil(t, line.UnitWeightGrams)
		assert.False(t, line.HasWeight())
	})

	t.Run("MissingAndZeroBecomeUnresolved", func(t *testing.T) {
		assert.Nil(t, LegacyLine{PartID: 3, Quantity: 1}.ToCartLine().UnitWeightGrams)
		assert.Nil(t, LegacyLine{PartID: 3, Quantity: 1, PartWeight: grams(0)}.ToCartLine().UnitWeightGrams)
	})

	t.Run("FallsBackToItemID", func(t *testing.T) {
		line := LegacyLine{ID: 44, Quantity: 1}.ToCartLine()
		assert.Equal(t, int64(44), line.PartID)
	})
}

func TestCartFromLegacy_RejectsBadLines(t *testing.T) {
	_, err := CartFromLegacy([]LegacyLine{{PartID: 1, Quantity: -1}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

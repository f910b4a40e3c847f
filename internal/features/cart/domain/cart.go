package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// LegacyDefaultWeightGrams is the value older storefront carts stored when a part's
// weight was never looked up. It is only meaningful on LegacyLine.
const LegacyDefaultWeightGrams = 500

var (
	ErrInvalidQuantity = errors.New("cart line quantity must be a positive integer")
	ErrNegativePrice   = errors.New("cart line price must not be negative")
	ErrMissingPart     = errors.New("cart line has neither part id nor part code")
)

// CartLine is one part in the customer's cart.
// UnitWeightGrams is nil until a real weight is known.
type CartLine struct {
	PartID          int64           `json:"partId"`
	PartCode        string          `json:"partCode,omitempty"`
	PartName        string          `json:"partName,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"price"`
	UnitWeightGrams *int            `json:"weightGrams"`
}

// Validate checks the line's own invariants.
func (l CartLine) Validate() error {
	if l.Quantity <= 0 {
		return fmt.Errorf("part %d: %w", l.PartID, ErrInvalidQuantity)
	}
	if l.UnitPrice.IsNegative() {
		return fmt.Errorf("part %d: %w", l.PartID, ErrNegativePrice)
	}
	if l.PartID <= 0 && l.PartCode == "" {
		return ErrMissingPart
	}
	return nil
}

// LineTotal is unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// HasWeight reports whether the line already carries a resolved weight.
func (l CartLine) HasWeight() bool {
	return l.UnitWeightGrams != nil && *l.UnitWeightGrams > 0
}

// Cart is an ordered list of lines.
type Cart struct {
	Lines []CartLine `json:"items"`
}

// NewCart validates every line and returns the cart.
func NewCart(lines []CartLine) (*Cart, error) {
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return nil, err
		}
	}
	return &Cart{Lines: lines}, nil
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// Subtotal sums all line totals, rounded to cents.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, l := range c.Lines {
		total = total.Add(l.LineTotal())
	}
	return total.Round(2)
}

// Clone returns a deep copy so callers can hold a stable view of the cart.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return &Cart{}
	}
	lines := make([]CartLine, len(c.Lines))
	for i, l := range c.Lines {
		if l.UnitWeightGrams != nil {
			w := *l.UnitWeightGrams
			l.UnitWeightGrams = &w
		}
		lines[i] = l
	}
	return &Cart{Lines: lines}
}

package domain

import "github.com/shopspring/decimal"

// LegacyLine is the cart item shape the storefront keeps in the browser.
type LegacyLine struct {
	ID         int64           `json:"id"`
	PartID     int64           `json:"partId"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	PartName   string          `json:"partName"`
	PartCode   string          `json:"partCode"`
	PartWeight *int            `json:"partWeight"`
}

// ToCartLine converts a storefront item. A missing, non-positive or 500 g weight is
// treated as never resolved and becomes nil.
func (l LegacyLine) ToCartLine() CartLine {
	line := CartLine{
		PartID:    l.PartID,
		PartCode:  l.PartCode,
		PartName:  l.PartName,
		Quantity:  l.Quantity,
		UnitPrice: l.Price,
	}
	if line.PartID == 0 {
		line.PartID = l.ID
	}
	if l.PartWeight != nil && *l.PartWeight > 0 && *l.PartWeight != LegacyDefaultWeightGrams {
		w := *l.PartWeight
		line.UnitWeightGrams = &w
	}
	return line
}

// CartFromLegacy converts and validates a whole storefront cart.
func CartFromLegacy(items []LegacyLine) (*Cart, error) {
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.ToCartLine())
	}
	return NewCart(lines)
}

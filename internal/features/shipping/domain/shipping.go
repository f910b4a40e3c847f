package domain

import (
	"errors"
	"sort"
	"strconv"

	cart "parts-checkout/internal/features/cart/domain"

	"github.com/shopspring/decimal"
)

// DeliveryType is how the order reaches the customer.
type DeliveryType string

const (
	DeliveryUnset    DeliveryType = ""
	DeliveryPickup   DeliveryType = "pickup"
	DeliveryShipping DeliveryType = "shipping"
)

// ParseDeliveryType accepts "", "pickup" and "shipping".
func ParseDeliveryType(s string) (DeliveryType, error) {
	switch d := DeliveryType(s); d {
	case DeliveryUnset, DeliveryPickup, DeliveryShipping:
		return d, nil
	}
	return DeliveryUnset, ErrInvalidDeliveryType
}

// PickupOptionID is the shipping method id used for collection at the premises.
const PickupOptionID = "pickup"

// DefaultWeightGrams is used when no lookup yields a weight.
const DefaultWeightGrams = 500

var (
	ErrInvalidDeliveryType = errors.New("invalid delivery type")
	ErrPartNotFound        = errors.New("part not found")
	ErrNoDestination       = errors.New("destination province is required")
)

// WeightRange is the rated weight bracket in grams; Max is nil when unbounded.
type WeightRange struct {
	Min int  `json:"min"`
	Max *int `json:"max"`
}

// ShippingOption is one rated delivery offer. It is never mutated after a quote.
type ShippingOption struct {
	ID                    int64               `json:"id"`
	Name                  string              `json:"name"`
	Description           string              `json:"description"`
	Cost                  decimal.Decimal     `json:"cost"`
	OriginalCost          decimal.Decimal     `json:"originalCost"`
	EstimatedDays         int                 `json:"estimatedDays"`
	ZoneName              string              `json:"zoneName"`
	IsFreeShipping        bool                `json:"isFreeShipping"`
	FreeShippingThreshold decimal.NullDecimal `json:"freeShippingThreshold"`
	WeightRange           WeightRange         `json:"weightRange"`
}

// SelectionID is the id a draft stores to select this option.
func (o ShippingOption) SelectionID() string {
	return strconv.FormatInt(o.ID, 10)
}

// PickupOption is the zero-cost pseudo option synthesised for pickup delivery.
func PickupOption() ShippingOption {
	return ShippingOption{
		Name:        "Recogida en tienda",
		Description: "Recoge tu pedido en nuestras instalaciones",
	}
}

// SortByCost orders options cheapest first, keeping upstream order on ties.
func SortByCost(options []ShippingOption) {
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Cost.LessThan(options[j].Cost)
	})
}

// FindOption returns the option whose SelectionID equals id.
func FindOption(options []ShippingOption, id string) (ShippingOption, bool) {
	for _, o := range options {
		if o.SelectionID() == id {
			return o, true
		}
	}
	return ShippingOption{}, false
}

// WeightSource records which step of the lookup chain produced a weight.
type WeightSource string

const (
	WeightFromCart    WeightSource = "cart"
	WeightFromPartID  WeightSource = "part_id"
	WeightFromCode    WeightSource = "part_code"
	WeightFromDefault WeightSource = "default"
)

// WeightedLine is a cart line with a guaranteed positive unit weight.
type WeightedLine struct {
	Line   cart.CartLine
	Grams  int
	Source WeightSource
}

// QuoteRequest is what the rating service needs for one destination.
type QuoteRequest struct {
	Province   string
	PostalCode string
	Cart       *cart.Cart
}

// RateRequest is a QuoteRequest after weight resolution.
type RateRequest struct {
	Province   string
	PostalCode string
	Lines      []WeightedLine
}

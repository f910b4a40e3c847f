package domain

import (
	"strings"

	payments "parts-checkout/internal/features/payments/domain"
	shipping "parts-checkout/internal/features/shipping/domain"
)

// DefaultCountry is sent with every order; the shop only ships within Spain.
const DefaultCountry = "España"

type Customer struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	NifCif   string `json:"nifCif"`
}

type Address struct {
	Street     string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
}

// SameDestination reports whether a and o rate the same: province and postal
// code, ignoring surrounding whitespace.
func (a Address) SameDestination(o Address) bool {
	return strings.TrimSpace(a.Province) == strings.TrimSpace(o.Province) &&
		strings.TrimSpace(a.PostalCode) == strings.TrimSpace(o.PostalCode)
}

// AccountIntent asks the backend to create a customer account with the order.
type AccountIntent struct {
	Create   bool   `json:"create"`
	Password string `json:"-"`
}

// OrderDraft is the form state of one checkout. When UseSameAddress is set the
// Billing fields are ignored and replaced by Shipping at submission time.
type OrderDraft struct {
	Customer         Customer              `json:"customer"`
	Shipping         Address               `json:"shipping"`
	Billing          Address               `json:"billing"`
	UseSameAddress   bool                  `json:"useSameAddress"`
	DeliveryType     shipping.DeliveryType `json:"deliveryType"`
	ShippingMethodID string                `json:"shippingMethodId"`
	PaymentProvider  payments.ProviderID   `json:"paymentProvider"`
	Notes            string                `json:"notes"`
	Account          AccountIntent         `json:"account"`
}

func NewOrderDraft() OrderDraft {
	return OrderDraft{UseSameAddress: true}
}

// BillingAddress returns the address that goes on the invoice.
func (d OrderDraft) BillingAddress() Address {
	if d.UseSameAddress {
		return d.Shipping
	}
	return d.Billing
}

// Value returns the raw text of a form field.
func (d OrderDraft) Value(f Field) string {
	switch f {
	case FieldCustomerName:
		return d.Customer.Name
	case FieldCustomerLastName:
		return d.Customer.LastName
	case FieldCustomerEmail:
		return d.Customer.Email
	case FieldCustomerPhone:
		return d.Customer.Phone
	case FieldCustomerNifCif:
		return d.Customer.NifCif
	case FieldShippingAddress:
		return d.Shipping.Street
	case FieldShippingCity:
		return d.Shipping.City
	case FieldShippingProvince:
		return d.Shipping.Province
	case FieldShippingPostalCode:
		return d.Shipping.PostalCode
	case FieldBillingAddress:
		return d.Billing.Street
	case FieldBillingCity:
		return d.Billing.City
	case FieldBillingProvince:
		return d.Billing.Province
	case FieldBillingPostalCode:
		return d.Billing.PostalCode
	case FieldPassword:
		return d.Account.Password
	case FieldDeliveryType:
		return string(d.DeliveryType)
	case FieldShippingMethod:
		return d.ShippingMethodID
	case FieldPaymentMethod:
		return string(d.PaymentProvider)
	}
	return ""
}

// DraftPatch carries a partial form update; nil fields are left untouched.
type DraftPatch struct {
	CustomerName     *string `json:"customerName,omitempty"`
	CustomerLastName *string `json:"customerLastName,omitempty"`
	CustomerEmail    *string `json:"customerEmail,omitempty"`
	CustomerPhone    *string `json:"customerPhone,omitempty"`
	CustomerNifCif   *string `json:"customerNifCif,omitempty"`

	ShippingAddress    *string `json:"shippingAddress,omitempty"`
	ShippingCity       *string `json:"shippingCity,omitempty"`
	ShippingProvince   *string `json:"shippingProvince,omitempty"`
	ShippingPostalCode *string `json:"shippingPostalCode,omitempty"`

	BillingAddress    *string `json:"billingAddress,omitempty"`
	BillingCity       *string `json:"billingCity,omitempty"`
	BillingProvince   *string `json:"billingProvince,omitempty"`
	BillingPostalCode *string `json:"billingPostalCode,omitempty"`

	UseSameAddress *bool   `json:"useSameAddress,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	CreateAccount  *bool   `json:"createAccount,omitempty"`
	Password       *string `json:"password,omitempty"`
}

// Apply merges p into d and reports whether the rated destination (province or
// postal code) changed.
func (d *OrderDraft) Apply(p DraftPatch) (destinationChanged bool) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}

	set(&d.Customer.Name, p.CustomerName)
	set(&d.Customer.LastName, p.CustomerLastName)
	set(&d.Customer.Email, p.CustomerEmail)
	set(&d.Customer.Phone, p.CustomerPhone)
	set(&d.Customer.NifCif, p.CustomerNifCif)

	before := d.Shipping
	set(&d.Shipping.Street, p.ShippingAddress)
	set(&d.Shipping.City, p.ShippingCity)
	set(&d.Shipping.Province, p.ShippingProvince)
	set(&d.Shipping.PostalCode, p.ShippingPostalCode)

	set(&d.Billing.Street, p.BillingAddress)
	set(&d.Billing.City, p.BillingCity)
	set(&d.Billing.Province, p.BillingProvince)
	set(&d.Billing.PostalCode, p.BillingPostalCode)

	if p.UseSameAddress != nil {
		d.UseSameAddress = *p.UseSameAddress
	}
	set(&d.Notes, p.Notes)
	if p.CreateAccount != nil {
		d.Account.Create = *p.CreateAccount
	}
	set(&d.Account.Password, p.Password)

	return !before.SameDestination(d.Shipping)
}

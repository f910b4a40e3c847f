package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	shipping "parts-checkout/internal/features/shipping/domain"

	"github.com/shopspring/decimal"
)

// PaymentStatusCompleted marks an order created after the gateway confirmed payment.
const PaymentStatusCompleted = "completed"

// Totals are computed once per submission. Total is always Subtotal + ShippingCost.
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Total        decimal.Decimal `json:"total"`
}

func NewTotals(subtotal, shippingCost decimal.Decimal) Totals {
	return Totals{
		Subtotal:     subtotal.Round(2),
		ShippingCost: shippingCost.Round(2),
		Total:        subtotal.Add(shippingCost).Round(2),
	}
}

// OrderRef identifies an order created by the shop backend.
type OrderRef struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"orderNumber"`
}

// ShippingMethodRef is "pickup" or a rated option id; numeric ids go on the wire as
// numbers.
type ShippingMethodRef string

func (r ShippingMethodRef) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(r), 10, 64); err == nil {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(r))
}

func (r *ShippingMethodRef) UnmarshalJSON(b []byte) error {
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*r = ShippingMethodRef(strconv.FormatInt(n, 10))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid shipping method id: %w", err)
	}
	*r = ShippingMethodRef(s)
	return nil
}

// OrderItem is one order line as the shop backend expects it.
type OrderItem struct {
	PartID   int64           `json:"partId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	PartName string          `json:"partName"`
}

// OrderRequest is the complete order payload. Billing fields are already resolved;
// when the customer reused the shipping address they hold copies of it.
type OrderRequest struct {
	CustomerName       string `json:"customerName"`
	CustomerLastName   string `json:"customerLastName"`
	CustomerEmail      string `json:"customerEmail"`
	CustomerPhone      string `json:"customerPhone"`
	CustomerNifCif     string `json:"customerNifCif"`
	ShippingAddress    string `json:"shippingAddress"`
	ShippingCity       string `json:"shippingCity"`
	ShippingProvince   string `json:"shippingProvince"`
	ShippingPostalCode string `json:"shippingPostalCode"`
	ShippingCountry    string `json:"shippingCountry"`
	BillingAddress     string `json:"billingAddress"`
	BillingCity        string `json:"billingCity"`
	BillingProvince    string `json:"billingProvince"`
	BillingPostalCode  string `json:"billingPostalCode"`

	PaymentMethodID  ProviderID            `json:"paymentMethodId"`
	ShippingMethodID ShippingMethodRef     `json:"shippingMethodId"`
	ShippingType     shipping.DeliveryType `json:"shippingType"`
	Notes            string                `json:"notes"`
	Items            []OrderItem           `json:"items"`

	Subtotal     string `json:"subtotal"`
	ShippingCost string `json:"shippingCost"`
	Total        string `json:"total"`

	CreateAccount bool   `json:"createAccount"`
	Password      string `json:"password,omitempty"`
	SessionID     string `json:"sessionId"`

	PaymentTransactionID string `json:"paymentTransactionId,omitempty"`
	PaymentStatus        string `json:"paymentStatus,omitempty"`
}

// SetTotals writes totals in the decimal string form the backend stores.
func (r *OrderRequest) SetTotals(t Totals) {
	r.Subtotal = t.Subtotal.StringFixed(2)
	r.ShippingCost = t.ShippingCost.StringFixed(2)
	r.Total = t.Total.StringFixed(2)
}

// CustomerFullName joins name and surname.
func (r OrderRequest) CustomerFullName() string {
	return strings.TrimSpace(r.CustomerName + " " + r.CustomerLastName)
}

// Submission is everything the dispatcher needs for one attempt.
type Submission struct {
	SessionID string
	Provider  ProviderID
	Order     OrderRequest
	Totals    Totals
}

// PaymentIntent is sent to redirect-first gateways.
type PaymentIntent struct {
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	Description   string            `json:"description"`
	CustomerEmail string            `json:"customerEmail"`
	CustomerName  string            `json:"customerName"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// PaymentFormRequest asks an order-first gateway for its redirect form.
type PaymentFormRequest struct {
	OrderID       int64             `json:"id"`
	OrderNumber   string            `json:"orderNumber"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	Description   string            `json:"description"`
	CustomerEmail string            `json:"customerEmail"`
	CustomerName  string            `json:"customerName"`
	ReturnURL     string            `json:"returnUrl"`
	CancelURL     string            `json:"cancelUrl"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// PaymentForm is the raw, untrusted gateway answer.
type PaymentForm struct {
	FormHTML  string
	ActionURL string
}

// ConfirmationURL is where the storefront shows the order after checkout.
func ConfirmationURL(publicURL string, orderID int64, provider ProviderID, sessionID string) string {
	q := url.Values{}
	if provider != "" {
		q.Set("payment", string(provider))
	}
	q.Set("sessionId", sessionID)
	return fmt.Sprintf("%s/order-confirmation/%d?%s", strings.TrimRight(publicURL, "/"), orderID, q.Encode())
}

// CancelURL brings the customer back to checkout after abandoning the gateway.
func CancelURL(publicURL string) string {
	return strings.TrimRight(publicURL, "/") + "/checkout?error=payment_cancelled"
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func str(s string) *string { return &s }
func flag(b bool) *bool    { return &b }

func TestNewOrderDraft_UsesSameAddress(t *testing.T) {
	assert.True(t, NewOrderDraft().UseSameAddress)
}

func TestOrderDraft_BillingAddress(t *testing.T) {
	d := NewOrderDraft()
	d.Shipping = Address{Street: "Calle Mayor 1", City: "Murcia", Province: "Murcia", PostalCode: "30001"}
	d.Billing = Address{Street: "Gran Vía 2", City: "Madrid", Province: "Madrid", PostalCode: "28013"}

	assert.Equal(t, d.Shipping, d.BillingAddress())

	d.UseSameAddress = false
	assert.Equal(t, d.Billing, d.BillingAddress())
}

func TestOrderDraft_Apply(t *testing.T) {
	d := NewOrderDraft()

	changed := d.Apply(DraftPatch{CustomerName: str("Ana"), ShippingProvince: str("Murcia")})
	assert.True(t, changed)
	assert.Equal(t, "Ana", d.Customer.Name)

	changed = d.Apply(DraftPatch{ShippingCity: str("Cartagena"), ShippingProvince: str(" Murcia ")})
	assert.False(t, changed, "whitespace is not a province change")
	assert.Equal(t, "Ana", d.Customer.Name, "untouched fields survive")

	changed = d.Apply(DraftPatch{ShippingPostalCode: str("30201")})
	assert.True(t, changed, "a new postal code is a new destination")
	changed = d.Apply(DraftPatch{ShippingPostalCode: str("30201 "), BillingPostalCode: str("28013")})
	assert.False(t, changed, "billing changes never re-rate")

	d.Apply(DraftPatch{UseSameAddress: flag(false), CreateAccount: flag(true), Password: str("secreto")})
	assert.False(t, d.UseSameAddress)
	assert.True(t, d.Account.Create)
	assert.Equal(t, "secreto", d.Value(FieldPassword))
}

func TestProfile_PrefillDraft(t *testing.T) {
	t.Run("NoBillingAddress", func(t *testing.T) {
		d := NewOrderDraft()
		Profile{FirstName: "Ana", Address: "Calle Mayor 1", City: "Murcia", Province: "Murcia", PostalCode: "30001"}.PrefillDraft(&d)

		assert.True(t, d.UseSameAddress)
		assert.Equal(t, "Ana", d.Customer.Name)
		assert.Equal(t, d.Shipping, d.Billing)
	})

	t.Run("OwnBillingAddress", func(t *testing.T) {
		d := NewOrderDraft()
		Profile{Address: "Calle Mayor 1", City: "Murcia", BillingAddress: "Gran Vía 2"}.PrefillDraft(&d)

		assert.False(t, d.UseSameAddress)
		assert.Equal(t, "Gran Vía 2", d.Billing.Street)
		assert.Equal(t, "Murcia", d.Billing.City, "missing billing parts fall back to shipping")
	})
}

func TestState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateEditing, StateValidating, true},
		{StateEditing, StateDispatching, false},
		{StateValidating, StateEditing, true},
		{StateValidating, StateDispatching, true},
		{StateDispatching, StateRedirectingExternal, true},
		{StateDispatching, StateConfirmed, true},
		{StateDispatching, StateFailed, true},
		{StateDispatching, StateEditing, false},
		{StateRedirectingExternal, StateEditing, true},
		{StateRedirectingExternal, StateDispatching, true},
		{StateRedirectingExternal, StateConfirmed, false},
		{StateFailed, StateEditing, true},
		{StateFailed, StateDispatching, false},
		{StateConfirmed, StateEditing, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.True(t, StateConfirmed.IsTerminal())
}

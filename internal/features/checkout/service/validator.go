package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"parts-checkout/internal/features/checkout/domain"
	shipping "parts-checkout/internal/features/shipping/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type rule struct {
	required string
	check    func(v string) bool
	invalid  string
}

func minChars(n int) func(string) bool {
	return func(v string) bool { return utf8.RuneCountInString(v) >= n }
}

func minDigits(n int) func(string) bool {
	return func(v string) bool {
		count := 0
		for _, r := range v {
			if unicode.IsDigit(r) {
				count++
			}
		}
		return count >= n
	}
}

var rules = map[domain.Field]rule{
	domain.FieldCustomerName:       {"El nombre es obligatorio", minChars(2), "El nombre debe tener al menos 2 caracteres"},
	domain.FieldCustomerLastName:   {"Los apellidos son obligatorios", minChars(2), "Los apellidos deben tener al menos 2 caracteres"},
	domain.FieldCustomerEmail:      {"El email es obligatorio", emailPattern.MatchString, "El email debe tener un formato válido"},
	domain.FieldCustomerPhone:      {"El teléfono es obligatorio", minDigits(9), "El teléfono debe tener al menos 9 dígitos"},
	domain.FieldCustomerNifCif:     {"El NIF/CIF es obligatorio", minChars(9), "El NIF/CIF debe tener al menos 9 caracteres"},
	domain.FieldShippingAddress:    {"La dirección es obligatoria", minChars(5), "La dirección debe tener al menos 5 caracteres"},
	domain.FieldShippingCity:       {"La ciudad es obligatoria", minChars(2), "La ciudad debe tener al menos 2 caracteres"},
	domain.FieldShippingProvince:   {"La provincia es obligatoria", nil, ""},
	domain.FieldShippingPostalCode: {"El código postal es obligatorio", minDigits(5), "El código postal debe tener al menos 5 dígitos"},
	domain.FieldBillingAddress:     {"La dirección de facturación es obligatoria", minChars(5), "La dirección debe tener al menos 5 caracteres"},
	domain.FieldBillingCity:        {"La ciudad de facturación es obligatoria", minChars(2), "La ciudad debe tener al menos 2 caracteres"},
	domain.FieldBillingProvince:    {"La provincia de facturación es obligatoria", nil, ""},
	domain.FieldBillingPostalCode:  {"El código postal de facturación es obligatorio", minDigits(5), "El código postal debe tener al menos 5 dígitos"},
	domain.FieldPassword:           {"La contraseña es obligatoria", minChars(6), "La contraseña debe tener al menos 6 caracteres"},
	domain.FieldDeliveryType:       {"Selecciona un tipo de entrega", nil, ""},
	domain.FieldShippingMethod:     {"Selecciona un método de envío", nil, ""},
	domain.FieldPaymentMethod:      {"Selecciona un método de pago", nil, ""},
}

// FieldError returns the message for one field value, or "" when there is
// nothing to show. Before the first submit attempt (showValidation false) an
// empty value is not an error. It has no side effects.
func FieldError(field domain.Field, value string, showValidation bool) string {
	r, ok := rules[field]
	if !ok {
		return ""
	}

	v := strings.TrimSpace(value)
	if v == "" {
		if showValidation {
			return r.required
		}
		return ""
	}
	if r.check != nil && !r.check(v) {
		return r.invalid
	}
	return ""
}

// RequiredFields lists the text fields the draft must fill, given its switches.
func RequiredFields(d domain.OrderDraft) []domain.Field {
	fields := make([]domain.Field, 0, 14)
	fields = append(fields, domain.CustomerFields...)
	fields = append(fields, domain.ShippingFields...)
	if !d.UseSameAddress {
		fields = append(fields, domain.BillingFields...)
	}
	if d.Account.Create {
		fields = append(fields, domain.FieldPassword)
	}
	return fields
}

// FormErrors evaluates every required field plus the three selections.
func FormErrors(d domain.OrderDraft, showValidation bool) map[domain.Field]string {
	errs := make(map[domain.Field]string)
	for _, f := range RequiredFields(d) {
		if msg := FieldError(f, d.Value(f), showValidation); msg != "" {
			errs[f] = msg
		}
	}
	if !showValidation {
		return errs
	}

	if d.DeliveryType == shipping.DeliveryUnset {
		errs[domain.FieldDeliveryType] = rules[domain.FieldDeliveryType].required
	}
	if !hasConcreteShippingMethod(d) {
		errs[domain.FieldShippingMethod] = rules[domain.FieldShippingMethod].required
	}
	if d.PaymentProvider == "" {
		errs[domain.FieldPaymentMethod] = rules[domain.FieldPaymentMethod].required
	}
	return errs
}

// IsFormValid holds when every required field passes and a delivery type,
// payment provider and concrete shipping method are chosen.
func IsFormValid(d domain.OrderDraft) bool {
	return len(FormErrors(d, true)) == 0
}

// hasConcreteShippingMethod requires the literal pickup id for pickup and a
// rated option id for shipping. A delivery type alone is not enough.
func hasConcreteShippingMethod(d domain.OrderDraft) bool {
	switch d.DeliveryType {
	case shipping.DeliveryPickup:
		return d.ShippingMethodID == shipping.PickupOptionID
	case shipping.DeliveryShipping:
		return d.ShippingMethodID != "" && d.ShippingMethodID != shipping.PickupOptionID
	}
	return false
}

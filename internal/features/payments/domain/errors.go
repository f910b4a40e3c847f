package domain

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why a submission did not go through.
type FailureKind string

const (
	FailureValidation          FailureKind = "validation"
	FailureServerValidation    FailureKind = "server_validation"
	FailureTransport           FailureKind = "transport"
	FailureGeneric             FailureKind = "generic"
	FailureMalformedRedirect   FailureKind = "malformed_redirect"
	FailureUnsupportedProvider FailureKind = "unsupported_provider"
)

// Customer-facing messages.
const (
	MsgCompleteRequired   = "Por favor, completa todos los campos obligatorios"
	MsgFormInvalid        = "Por favor, completa todos los campos obligatorios antes de continuar."
	MsgTransport          = "No se pudo conectar con el servidor. Inténtalo de nuevo."
	MsgOrderCreateFailed  = "Error al crear el pedido"
	MsgPaymentConfig      = "Error en la configuración del pago"
	MsgMethodNotSelected  = "Método de pago no seleccionado"
	MsgPaymentUnavailable = "Este método de pago no está disponible"
)

// PaymentFailedMessage is shown when a gateway call fails.
func PaymentFailedMessage(provider ProviderID) string {
	return "Error al procesar el pago con " + provider.DisplayName()
}

var (
	ErrNoSubmittableForm = errors.New("payment form contains no submittable form")
	ErrUnsafeFormAction  = errors.New("payment form action is not an https URL")
	ErrMissingRedirect   = errors.New("gateway returned no redirect URL")
	ErrNoPendingOrder    = errors.New("no pending order for session")
	ErrProviderMismatch  = errors.New("pending order was started with another provider")
)

// GatewayError is returned by the backend adapters. Kind is transport, server
// validation or generic; Detail is the backend's error text, if any.
type GatewayError struct {
	Op     string
	Kind   FailureKind
	Status int
	Detail string
	Err    error
}

func (e *GatewayError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GatewayError) Unwrap() error { return e.Err }

// fieldMessages maps backend field names to friendly text, in match priority order.
var fieldMessages = []struct {
	field   string
	message string
}{
	{"customerPhone", "El teléfono es obligatorio y debe tener un formato válido"},
	{"customerName", "El nombre es obligatorio"},
	{"customerLastName", "Los apellidos son obligatorios"},
	{"customerEmail", "El email es obligatorio y debe tener un formato válido"},
	{"shippingAddress", "La dirección de envío es obligatoria"},
	{"shippingCity", "La ciudad es obligatoria"},
	{"shippingProvince", "La provincia es obligatoria"},
	{"shippingPostalCode", "El código postal es obligatorio"},
	{"paymentMethodId", "Debe seleccionar un método de pago"},
	{"shippingMethodId", "Debe seleccionar un método de envío"},
}

// FriendlyValidationMessage maps a structured validation payload to one message and
// the field it concerns. Unknown fields get the generic message and no field.
func FriendlyValidationMessage(detail string) (field, message string) {
	for _, fm := range fieldMessages {
		if strings.Contains(detail, fm.field) {
			return fm.field, fm.message
		}
	}
	return "", MsgCompleteRequired
}

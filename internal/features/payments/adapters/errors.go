package adapters

import (
	"encoding/json"
	"errors"
	"net/http"

	"parts-checkout/internal/core/storeapi"
	"parts-checkout/internal/features/payments/domain"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// classify converts a store API error into a domain.GatewayError.
func classify(op string, err error) error {
	var se *storeapi.StatusError
	if !errors.As(err, &se) {
		return &domain.GatewayError{Op: op, Kind: domain.FailureTransport, Err: err}
	}

	var body errorBody
	_ = json.Unmarshal(se.Body, &body)
	detail := body.Error
	if detail == "" {
		detail = body.Message
	}

	kind := domain.FailureGeneric
	if se.Status == http.StatusBadRequest && body.Error != "" {
		kind = domain.FailureServerValidation
	}
	return &domain.GatewayError{Op: op, Kind: kind, Status: se.Status, Detail: detail, Err: err}
}

package adapters

import (
	"context"
	"errors"
	"net/http"

	"parts-checkout/internal/core/storeapi"
	"parts-checkout/internal/features/payments/domain"
)

// StorePaymentGateway implements ports.PaymentGateway against the backend payment
// modules at /api/payment/{provider}/process.
type StorePaymentGateway struct {
	api *storeapi.Client
}

func NewStorePaymentGateway(api *storeapi.Client) *StorePaymentGateway {
	return &StorePaymentGateway{api: api}
}

type processResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Data    struct {
		RedirectURL string `json:"redirectUrl"`
		FormHTML    string `json:"formHtml"`
		ActionURL   string `json:"actionUrl"`
	} `json:"data"`
}

var errNotSuccessful = errors.New("payment module reported failure")

func (g *StorePaymentGateway) process(ctx context.Context, provider domain.ProviderID, body any) (*processResponse, error) {
	op := "process " + string(provider) + " payment"

	var res processResponse
	if err := g.api.Do(ctx, http.MethodPost, "/api/payment/"+string(provider)+"/process", body, &res); err != nil {
		return nil, classify(op, err)
	}
	if !res.Success {
		detail := res.Error
		if detail == "" {
			detail = res.Message
		}
		return nil, &domain.GatewayError{Op: op, Kind: domain.FailureGeneric, Status: http.StatusOK, Detail: detail, Err: errNotSuccessful}
	}
	return &res, nil
}

func (g *StorePaymentGateway) CreatePaymentIntent(ctx context.Context, provider domain.ProviderID, intent domain.PaymentIntent) (string, error) {
	res, err := g.process(ctx, provider, intent)
	if err != nil {
		return "", err
	}
	return res.Data.RedirectURL, nil
}

func (g *StorePaymentGateway) CreatePaymentForm(ctx context.Context, provider domain.ProviderID, req domain.PaymentFormRequest) (domain.PaymentForm, error) {
	res, err := g.process(ctx, provider, req)
	if err != nil {
		return domain.PaymentForm{}, err
	}
	return domain.PaymentForm{FormHTML: res.Data.FormHTML, ActionURL: res.Data.ActionURL}, nil
}

package adapters

import (
	"context"
	"encoding/json"
	"net/http"

	"parts-checkout/internal/core/storeapi"
	"parts-checkout/internal/features/payments/domain"
)

// StoreOrderService implements ports.OrderService with POST /api/orders/local.
type StoreOrderService struct {
	api *storeapi.Client
}

func NewStoreOrderService(api *storeapi.Client) *StoreOrderService {
	return &StoreOrderService{api: api}
}

// orderNumber accepts the order number as a JSON string or number.
type orderNumber string

func (n *orderNumber) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = orderNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = orderNumber(num.String())
	return nil
}

type orderResponse struct {
	ID          int64       `json:"id"`
	OrderNumber orderNumber `json:"orderNumber"`
}

func (s *StoreOrderService) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderRef, error) {
	var res orderResponse
	if err := s.api.Do(ctx, http.MethodPost, "/api/orders/local", req, &res); err != nil {
		return domain.OrderRef{}, classify("create order", err)
	}
	return domain.OrderRef{ID: res.ID, OrderNumber: string(res.OrderNumber)}, nil
}

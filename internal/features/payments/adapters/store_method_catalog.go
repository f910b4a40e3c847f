package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"parts-checkout/internal/core/logger"
	"parts-checkout/internal/core/storeapi"
	"parts-checkout/internal/features/payments/domain"

	"go.uber.org/zap"
)

// StoreMethodCatalog implements ports.MethodCatalog with GET /api/payment-methods.
type StoreMethodCatalog struct {
	api *storeapi.Client
}

func NewStoreMethodCatalog(api *storeapi.Client) *StoreMethodCatalog {
	return &StoreMethodCatalog{api: api}
}

type paymentMethodRow struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Provider     string          `json:"provider"`
	IsActive     bool            `json:"is_active"`
	IsConfigured *bool           `json:"is_configured"`
	Config       json.RawMessage `json:"config"`
}

// configured trusts an explicit flag; otherwise an active method with a non-empty
// config object counts as configured.
func (r paymentMethodRow) configured() bool {
	if r.IsConfigured != nil {
		return r.IsActive && *r.IsConfigured
	}
	cfg := bytes.TrimSpace(r.Config)
	empty := len(cfg) == 0 || bytes.Equal(cfg, []byte("null")) || bytes.Equal(cfg, []byte("{}"))
	return r.IsActive && !empty
}

// PaymentMethods returns known providers; unknown ones are logged and skipped.
func (c *StoreMethodCatalog) PaymentMethods(ctx context.Context) ([]domain.PaymentMethodDescriptor, error) {
	var rows []paymentMethodRow
	if err := c.api.Do(ctx, http.MethodGet, "/api/payment-methods", nil, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch payment methods: %w", err)
	}

	out := make([]domain.PaymentMethodDescriptor, 0, len(rows))
	for _, r := range rows {
		provider := domain.ProviderID(r.Provider)
		if _, err := domain.ProtocolFor(provider); err != nil {
			logger.Named("payments").Warn("Skipping unknown payment provider", zap.String("provider", r.Provider))
			continue
		}
		out = append(out, domain.NewPaymentMethodDescriptor(r.ID, provider, r.Name, r.configured()))
	}
	return out, nil
}

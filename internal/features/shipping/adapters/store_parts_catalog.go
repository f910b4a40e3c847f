package adapters

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"parts-checkout/internal/core/storeapi"
	"parts-checkout/internal/features/shipping/domain"
)

// StorePartsCatalog implements ports.PartCatalog against the store parts API.
type StorePartsCatalog struct {
	api *storeapi.Client
}

func NewStorePartsCatalog(api *storeapi.Client) *StorePartsCatalog {
	return &StorePartsCatalog{api: api}
}

// weightValue accepts the stored weight as a JSON number, a numeric string or null.
type weightValue int

func (w *weightValue) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*w = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid part weight %q: %w", b, err)
	}
	*w = weightValue(f)
	return nil
}

type partResponse struct {
	ID   int64       `json:"id"`
	Peso weightValue `json:"peso"`
}

type searchResponse struct {
	Data []partResponse `json:"data"`
}

// PartWeightByID fetches GET /api/parts/{id}.
func (c *StorePartsCatalog) PartWeightByID(ctx context.Context, partID int64) (int, error) {
	var part partResponse
	err := c.api.Do(ctx, http.MethodGet, "/api/parts/"+strconv.FormatInt(partID, 10), nil, &part)
	if storeapi.IsStatus(err, http.StatusNotFound) {
		return 0, fmt.Errorf("part %d: %w", partID, domain.ErrPartNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch part %d: %w", partID, err)
	}
	return int(part.Peso), nil
}

// PartWeightByCode takes the first hit of the storefront part search.
func (c *StorePartsCatalog) PartWeightByCode(ctx context.Context, code string) (int, error) {
	var res searchResponse
	err := c.api.Do(ctx, http.MethodGet, "/api/search-parts", nil, &res,
		storeapi.WithQuery(url.Values{"search": {code}, "limit": {"1"}}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to search part %q: %w", code, err)
	}
	if len(res.Data) == 0 {
		return 0, fmt.Errorf("part %q: %w", code, domain.ErrPartNotFound)
	}
	return int(res.Data[0].Peso), nil
}

package service

import (
	"context"
	"errors"

	"parts-checkout/internal/core/logger"
	cart "parts-checkout/internal/features/cart/domain"
	"parts-checkout/internal/features/shipping/domain"
	"parts-checkout/internal/features/shipping/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WeightResolver finds a positive shipping weight for every cart line.
// Lookups never fail the resolution: each failed step falls through to the next
// and the chain ends at domain.DefaultWeightGrams.
type WeightResolver struct {
	catalog     ports.PartCatalog
	concurrency int
	log         *zap.Logger
}

func NewWeightResolver(catalog ports.PartCatalog, concurrency int) *WeightResolver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &WeightResolver{
		catalog:     catalog,
		concurrency: concurrency,
		log:         logger.Named("weights"),
	}
}

// ResolveWeight walks the chain: cart value, lookup by id, search by code, default.
func (r *WeightResolver) ResolveWeight(ctx context.Context, line cart.CartLine) domain.WeightedLine {
	if line.HasWeight() {
		return domain.WeightedLine{Line: line, Grams: *line.UnitWeightGrams, Source: domain.WeightFromCart}
	}

	log := r.log.With(zap.Int64("part_id", line.PartID), zap.String("part_code", line.PartCode))

	if line.PartID > 0 {
		grams, err := r.catalog.PartWeightByID(ctx, line.PartID)
		switch {
		case err == nil && grams > 0:
			return domain.WeightedLine{Line: line, Grams: grams, Source: domain.WeightFromPartID}
		case err != nil && !errors.Is(err, domain.ErrPartNotFound):
			log.Warn("Part lookup by id failed", zap.Error(err))
		}
	}

	if line.PartCode != "" {
		grams, err := r.catalog.PartWeightByCode(ctx, line.PartCode)
		switch {
		case err == nil && grams > 0:
			return domain.WeightedLine{Line: line, Grams: grams, Source: domain.WeightFromCode}
		case err != nil && !errors.Is(err, domain.ErrPartNotFound):
			log.Warn("Part search by code failed", zap.Error(err))
		}
	}

	log.Debug("Using default weight", zap.Int("grams", domain.DefaultWeightGrams))
	return domain.WeightedLine{Line: line, Grams: domain.DefaultWeightGrams, Source: domain.WeightFromDefault}
}

// ResolveAll resolves lines in parallel and returns them in input order once
// every lookup has finished.
func (r *WeightResolver) ResolveAll(ctx context.Context, lines []cart.CartLine) []domain.WeightedLine {
	out := make([]domain.WeightedLine, len(lines))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, line := range lines {
		g.Go(func() error {
			out[i] = r.ResolveWeight(ctx, line)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

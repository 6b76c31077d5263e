package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leadhub-crm/leadhub-crm/internal/catalog"
	"github.com/leadhub-crm/leadhub-crm/internal/shared"
)

// BulkMarkup is the fixed cost-plus markup applied before the tier multiplier.
const BulkMarkup = 1.5

// BulkResult is the aggregate outcome of one bulk pricing run. Failures are
// per-item and never abort the batch; re-running is safe because already
// priced products are skipped.
type BulkResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// BulkPrice derives the generated sales price from a standard cost amount and
// the rate card's pricing tier.
func BulkPrice(costAmount float64, tier PricingTier) float64 {
	return costAmount * BulkMarkup * tier.Multiplier()
}

// BulkGeneratePrices fills in a sales price for every product that has a
// standard cost but no price in the target rate card yet. Each submission is
// independent; no transaction spans the batch.
func (s *Service) BulkGeneratePrices(ctx context.Context, rateCardID string) (BulkResult, error) {
	card, err := s.repo.GetRateCard(ctx, rateCardID)
	if err != nil {
		return BulkResult{}, fmt.Errorf("get rate card: %w", err)
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, card.ID)
		if err != nil {
			return BulkResult{}, fmt.Errorf("%w: bulk generation already running for rate card", shared.ErrConflict)
		}
		defer release(ctx)
	}

	// Snapshot the related collections immediately before deciding; a
	// concurrent writer can still race past, and the store's unique
	// constraint settles it.
	products, _, err := s.products.ListProducts(ctx, catalog.ListFilters{})
	if err != nil {
		return BulkResult{}, fmt.Errorf("snapshot products: %w", err)
	}
	prices, _, err := s.repo.ListPrices(ctx, ListFilters{RateCardID: &rateCardID})
	if err != nil {
		return BulkResult{}, fmt.Errorf("snapshot prices: %w", err)
	}
	costType := CostStandard
	costs, _, err := s.repo.ListCosts(ctx, ListFilters{CostType: &costType})
	if err != nil {
		return BulkResult{}, fmt.Errorf("snapshot costs: %w", err)
	}

	priced := make(map[string]bool, len(prices))
	for _, price := range prices {
		priced[price.ProductID] = true
	}
	standardCosts := make(map[string]PurchaseCost, len(costs))
	for _, cost := range costs {
		if cost.Active {
			standardCosts[cost.ProductID] = cost
		}
	}

	var created, skipped, failed atomic.Int64
	today := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.bulkConcurrency)

	for _, product := range products {
		if priced[product.ID] {
			skipped.Add(1)
			continue
		}
		cost, ok := standardCosts[product.ID]
		if !ok {
			skipped.Add(1)
			continue
		}

		g.Go(func() error {
			price := SalesPrice{
				ID:            uuid.NewString(),
				RateCardID:    card.ID,
				ProductID:     product.ID,
				Amount:        BulkPrice(cost.Amount, card.PricingTier),
				PricingType:   PricingOneTime,
				EffectiveDate: today,
				Active:        true,
			}
			if _, err := s.repo.CreatePrice(gctx, price); err != nil {
				if errors.Is(err, shared.ErrConflict) {
					// Another caller priced the product between snapshot and
					// write. Equivalent to the skip on retry.
					skipped.Add(1)
					return nil
				}
				failed.Add(1)
				if s.logger != nil {
					s.logger.Warn("bulk price submission failed",
						slog.String("rate_card_id", card.ID),
						slog.String("product_id", product.ID),
						slog.Any("error", err))
				}
				return nil
			}
			created.Add(1)
			return nil
		})
	}

	// Handlers always return nil; Wait only propagates context cancellation.
	if err := g.Wait(); err != nil {
		return BulkResult{}, err
	}

	return BulkResult{
		Created: int(created.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}, nil
}

package pricing

import (
	"strings"

	"github.com/leadhub-crm/leadhub-crm/internal/shared"
)

// ValidateRateCard checks the candidate's own fields. Returns nil when valid.
func ValidateRateCard(candidate RateCard) shared.ValidationError {
	errs := shared.ValidationError{}
	if strings.TrimSpace(candidate.Name) == "" {
		errs["name"] = "rate card name is required"
	}
	if strings.TrimSpace(candidate.Code) == "" {
		errs["code"] = "rate card code is required"
	}
	if candidate.EffectiveFrom.IsZero() {
		errs["effective_from"] = "effective from date is required"
	}
	if candidate.EffectiveTo.IsZero() {
		errs["effective_to"] = "effective to date is required"
	}
	if !candidate.EffectiveFrom.IsZero() && !candidate.EffectiveTo.IsZero() &&
		!candidate.EffectiveFrom.Before(candidate.EffectiveTo) {
		errs["effective_to"] = "effective to must be after effective from"
	}
	if !candidate.PricingTier.Valid() {
		errs["pricing_tier"] = "pricing tier must be one of standard, premium, bulk"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CheckRateCardUniqueness enforces a singular code across rate cards.
// Advisory only; the store's unique constraint is authoritative.
func CheckRateCardUniqueness(candidate RateCard, siblings []RateCard) *shared.ConflictError {
	for _, other := range siblings {
		if other.ID == candidate.ID {
			continue
		}
		if strings.EqualFold(other.Code, candidate.Code) {
			return shared.NewConflict("code", "a rate card with this code already exists")
		}
	}
	return nil
}

// ValidateCost checks the candidate's own fields. Returns nil when valid.
func ValidateCost(candidate PurchaseCost) shared.ValidationError {
	errs := shared.ValidationError{}
	if candidate.ProductID == "" {
		errs["product_id"] = "product is required"
	}
	if candidate.Amount <= 0 {
		errs["amount"] = "amount must be greater than zero"
	}
	if !candidate.CostType.Valid() {
		errs["cost_type"] = "cost type must be one of standard, bulk, special, seasonal"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CheckCostUniqueness enforces at most one purchase cost per
// (product_id, cost_type) pair.
func CheckCostUniqueness(candidate PurchaseCost, siblings []PurchaseCost) *shared.ConflictError {
	for _, other := range siblings {
		if other.ID == candidate.ID {
			continue
		}
		if other.ProductID == candidate.ProductID && other.CostType == candidate.CostType {
			return shared.NewConflict("cost_type", "a cost of this type already exists for the product")
		}
	}
	return nil
}

// ValidatePrice checks the candidate's own fields. Returns nil when valid.
func ValidatePrice(candidate SalesPrice) shared.ValidationError {
	errs := shared.ValidationError{}
	if candidate.RateCardID == "" {
		errs["rate_card_id"] = "rate card is required"
	}
	if candidate.ProductID == "" {
		errs["product_id"] = "product is required"
	}
	if candidate.Amount <= 0 {
		errs["amount"] = "amount must be greater than zero"
	}
	if !candidate.PricingType.Valid() {
		errs["pricing_type"] = "pricing type must be one of one_time, recurring, subscription, usage_based"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CheckPriceUniqueness enforces at most one sales price per
// (rate_card_id, product_id) pair.
func CheckPriceUniqueness(candidate SalesPrice, siblings []SalesPrice) *shared.ConflictError {
	for _, other := range siblings {
		if other.ID == candidate.ID {
			continue
		}
		if other.RateCardID == candidate.RateCardID && other.ProductID == candidate.ProductID {
			return shared.NewConflict("product_id", "a price for this product already exists in the rate card")
		}
	}
	return nil
}

package pricing

import (
	"context"
	"time"
)

// PricingTier drives the bulk-generation multiplier. It is an explicit field
// on the rate card rather than being inferred from identifiers or names.
type PricingTier string

const (
	TierStandard PricingTier = "standard"
	TierPremium  PricingTier = "premium"
	TierBulk     PricingTier = "bulk"
)

// Valid reports whether t is a known tier.
func (t PricingTier) Valid() bool {
	switch t {
	case TierStandard, TierPremium, TierBulk:
		return true
	}
	return false
}

// Multiplier returns the tier's bulk-price factor.
func (t PricingTier) Multiplier() float64 {
	switch t {
	case TierPremium:
		return 1.5
	case TierBulk:
		return 0.8
	default:
		return 1.0
	}
}

// CostType partitions purchase costs per product.
type CostType string

const (
	CostStandard CostType = "standard"
	CostBulk     CostType = "bulk"
	CostSpecial  CostType = "special"
	CostSeasonal CostType = "seasonal"
)

func (c CostType) Valid() bool {
	switch c {
	case CostStandard, CostBulk, CostSpecial, CostSeasonal:
		return true
	}
	return false
}

// PricingType classifies how a sales price is charged.
type PricingType string

const (
	PricingOneTime      PricingType = "one_time"
	PricingRecurring    PricingType = "recurring"
	PricingSubscription PricingType = "subscription"
	PricingUsageBased   PricingType = "usage_based"
)

func (p PricingType) Valid() bool {
	switch p {
	case PricingOneTime, PricingRecurring, PricingSubscription, PricingUsageBased:
		return true
	}
	return false
}

// RateCard is a named, time-bounded pricing list. Active is the operator's
// intent to enable the card; temporal validity is derived per query and never
// stored. IsReference marks the card used as the margin baseline.
type RateCard struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Code          string      `json:"code"`
	EffectiveFrom time.Time   `json:"effective_from"`
	EffectiveTo   time.Time   `json:"effective_to"`
	Description   string      `json:"description,omitempty"`
	Active        bool        `json:"active"`
	PricingTier   PricingTier `json:"pricing_tier"`
	IsReference   bool        `json:"is_reference"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// PurchaseCost is what the business pays for a product. At most one record
// may exist per (product_id, cost_type).
type PurchaseCost struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Amount        float64   `json:"amount"`
	CostType      CostType  `json:"cost_type"`
	Vendor        string    `json:"vendor,omitempty"`
	EffectiveDate time.Time `json:"effective_date"`
	Notes         string    `json:"notes,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SalesPrice is what a product sells for within one rate card. At most one
// record may exist per (rate_card_id, product_id).
type SalesPrice struct {
	ID            string      `json:"id"`
	RateCardID    string      `json:"rate_card_id"`
	ProductID     string      `json:"product_id"`
	Amount        float64     `json:"amount"`
	PricingType   PricingType `json:"pricing_type"`
	EffectiveDate time.Time   `json:"effective_date"`
	Active        bool        `json:"active"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page       int
	Limit      int
	Search     string
	IsActive   *bool
	ProductID  *string
	RateCardID *string
	CostType   *CostType
}

// Repository is the catalog store contract for pricing data.
type Repository interface {
	ListRateCards(ctx context.Context, filters ListFilters) ([]RateCard, int, error)
	GetRateCard(ctx context.Context, id string) (RateCard, error)
	CreateRateCard(ctx context.Context, card RateCard) (RateCard, error)
	UpdateRateCard(ctx context.Context, id string, card RateCard) error
	DeleteRateCard(ctx context.Context, id string) error

	ListCosts(ctx context.Context, filters ListFilters) ([]PurchaseCost, int, error)
	GetCost(ctx context.Context, id string) (PurchaseCost, error)
	CreateCost(ctx context.Context, cost PurchaseCost) (PurchaseCost, error)
	UpdateCost(ctx context.Context, id string, cost PurchaseCost) error
	DeleteCost(ctx context.Context, id string) error

	ListPrices(ctx context.Context, filters ListFilters) ([]SalesPrice, int, error)
	GetPrice(ctx context.Context, id string) (SalesPrice, error)
	CreatePrice(ctx context.Context, price SalesPrice) (SalesPrice, error)
	UpdatePrice(ctx context.Context, id string, price SalesPrice) error
	DeletePrice(ctx context.Context, id string) error
}

package pricing

import "time"

// CreateRateCardRequest carries a new rate card submission. Code is optional;
// when absent it is derived from the name on the creation path only.
type CreateRateCardRequest struct {
	Name          string      `json:"name" validate:"required"`
	Code          string      `json:"code,omitempty"`
	EffectiveFrom time.Time   `json:"effective_from" validate:"required"`
	EffectiveTo   time.Time   `json:"effective_to" validate:"required"`
	Description   string      `json:"description,omitempty"`
	Active        *bool       `json:"active,omitempty"`
	PricingTier   PricingTier `json:"pricing_tier,omitempty"`
	IsReference   bool        `json:"is_reference,omitempty"`
}

// UpdateRateCardRequest carries a partial rate card update.
type UpdateRateCardRequest struct {
	Name          *string      `json:"name,omitempty"`
	Code          *string      `json:"code,omitempty"`
	EffectiveFrom *time.Time   `json:"effective_from,omitempty"`
	EffectiveTo   *time.Time   `json:"effective_to,omitempty"`
	Description   *string      `json:"description,omitempty"`
	Active        *bool        `json:"active,omitempty"`
	PricingTier   *PricingTier `json:"pricing_tier,omitempty"`
	IsReference   *bool        `json:"is_reference,omitempty"`
}

// RateCardView is a rate card with its validity derived at response time.
type RateCardView struct {
	RateCard
	Status ValidityStatus `json:"status"`
}

// CreateCostRequest carries a new purchase cost submission.
type CreateCostRequest struct {
	ProductID     string     `json:"product_id" validate:"required"`
	Amount        float64    `json:"amount" validate:"required,gt=0"`
	CostType      CostType   `json:"cost_type" validate:"required"`
	Vendor        string     `json:"vendor,omitempty"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Active        *bool      `json:"active,omitempty"`
}

// UpdateCostRequest carries a partial purchase cost update.
type UpdateCostRequest struct {
	Amount        *float64   `json:"amount,omitempty" validate:"omitempty,gt=0"`
	CostType      *CostType  `json:"cost_type,omitempty"`
	Vendor        *string    `json:"vendor,omitempty"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	Active        *bool      `json:"active,omitempty"`
}

// CreatePriceRequest carries a new sales price submission.
type CreatePriceRequest struct {
	RateCardID    string      `json:"rate_card_id" validate:"required"`
	ProductID     string      `json:"product_id" validate:"required"`
	Amount        float64     `json:"amount" validate:"required,gt=0"`
	PricingType   PricingType `json:"pricing_type" validate:"required"`
	EffectiveDate *time.Time  `json:"effective_date,omitempty"`
	Active        *bool       `json:"active,omitempty"`
}

// UpdatePriceRequest carries a partial sales price update.
type UpdatePriceRequest struct {
	Amount        *float64     `json:"amount,omitempty" validate:"omitempty,gt=0"`
	PricingType   *PricingType `json:"pricing_type,omitempty"`
	EffectiveDate *time.Time   `json:"effective_date,omitempty"`
	Active        *bool        `json:"active,omitempty"`
}

// MarginReport is the read-time margin derivation for one product. Defined is
// false when the sales price is absent or zero; that is not an error.
type MarginReport struct {
	ProductID   string  `json:"product_id"`
	RateCardID  string  `json:"rate_card_id,omitempty"`
	CostAmount  float64 `json:"cost_amount,omitempty"`
	PriceAmount float64 `json:"price_amount,omitempty"`
	Defined     bool    `json:"defined"`
	Margin      *Margin `json:"margin,omitempty"`
}

package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leadhub-crm/leadhub-crm/internal/catalog"
)

// ProductSource is the slice of the catalog the pricing engine reads.
// Implemented by catalog.Service.
type ProductSource interface {
	ListProducts(ctx context.Context, filters catalog.ListFilters) ([]catalog.Product, int, error)
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

// Locker guards a bulk run per rate card. Implementations are advisory; a nil
// Locker disables locking.
type Locker interface {
	Acquire(ctx context.Context, rateCardID string) (release func(context.Context), err error)
}

// Service implements pricing business logic: rate card lifecycle, cost and
// price submission with pair uniqueness, read-time margin derivation and bulk
// price generation.
type Service struct {
	repo            Repository
	products        ProductSource
	logger          *slog.Logger
	locker          Locker
	bulkConcurrency int
	now             func() time.Time
}

func NewService(repo Repository, products ProductSource, logger *slog.Logger) *Service {
	return &Service{
		repo:            repo,
		products:        products,
		logger:          logger,
		bulkConcurrency: 4,
		now:             time.Now,
	}
}

// WithLocker installs the advisory lock used around bulk runs.
func (s *Service) WithLocker(locker Locker) *Service {
	s.locker = locker
	return s
}

// WithBulkConcurrency bounds parallel price submissions during bulk runs.
func (s *Service) WithBulkConcurrency(n int) *Service {
	if n > 0 {
		s.bulkConcurrency = n
	}
	return s
}

// WithClock overrides the time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Rate card operations

func (s *Service) ListRateCards(ctx context.Context, filters ListFilters) ([]RateCardView, int, error) {
	cards, total, err := s.repo.ListRateCards(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	views := make([]RateCardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, RateCardView{RateCard: card, Status: EvaluateValidity(card, now)})
	}
	return views, total, nil
}

func (s *Service) GetRateCard(ctx context.Context, id string) (RateCardView, error) {
	card, err := s.repo.GetRateCard(ctx, id)
	if err != nil {
		return RateCardView{}, err
	}
	return RateCardView{RateCard: card, Status: EvaluateValidity(card, s.now())}, nil
}

func (s *Service) CreateRateCard(ctx context.Context, req CreateRateCardRequest) (RateCardView, error) {
	now := s.now()
	code := req.Code
	if code == "" {
		code = RateCardCode(req.Name, now)
	}
	tier := req.PricingTier
	if tier == "" {
		tier = TierStandard
	}

	card := RateCard{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Code:          code,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
		Description:   req.Description,
		Active:        true,
		PricingTier:   tier,
		IsReference:   req.IsReference,
	}
	if req.Active != nil {
		card.Active = *req.Active
	}

	if errs := ValidateRateCard(card); errs != nil {
		return RateCardView{}, errs
	}

	siblings, _, err := s.repo.ListRateCards(ctx, ListFilters{})
	if err != nil {
		return RateCardView{}, fmt.Errorf("snapshot rate cards: %w", err)
	}
	if conflict := CheckRateCardUniqueness(card, siblings); conflict != nil {
		return RateCardView{}, conflict
	}

	created, err := s.repo.CreateRateCard(ctx, card)
	if err != nil {
		return RateCardView{}, err
	}
	return RateCardView{RateCard: created, Status: EvaluateValidity(created, now)}, nil
}

func (s *Service) UpdateRateCard(ctx context.Context, id string, req UpdateRateCardRequest) (RateCardView, error) {
	existing, err := s.repo.GetRateCard(ctx, id)
	if err != nil {
		return RateCardView{}, fmt.Errorf("get rate card: %w", err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	// The code only changes on an explicit edit, never by renaming.
	if req.Code != nil {
		existing.Code = *req.Code
	}
	if req.EffectiveFrom != nil {
		existing.EffectiveFrom = *req.EffectiveFrom
	}
	if req.EffectiveTo != nil {
		existing.EffectiveTo = *req.EffectiveTo
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}
	if req.PricingTier != nil {
		existing.PricingTier = *req.PricingTier
	}
	if req.IsReference != nil {
		existing.IsReference = *req.IsReference
	}

	if errs := ValidateRateCard(existing); errs != nil {
		return RateCardView{}, errs
	}

	siblings, _, err := s.repo.ListRateCards(ctx, ListFilters{})
	if err != nil {
		return RateCardView{}, fmt.Errorf("snapshot rate cards: %w", err)
	}
	if conflict := CheckRateCardUniqueness(existing, siblings); conflict != nil {
		return RateCardView{}, conflict
	}

	if err := s.repo.UpdateRateCard(ctx, id, existing); err != nil {
		return RateCardView{}, err
	}
	return s.GetRateCard(ctx, id)
}

func (s *Service) DeleteRateCard(ctx context.Context, id string) error {
	if _, err := s.repo.GetRateCard(ctx, id); err != nil {
		return fmt.Errorf("get rate card: %w", err)
	}
	return s.repo.DeleteRateCard(ctx, id)
}

// Purchase cost operations

func (s *Service) ListCosts(ctx context.Context, filters ListFilters) ([]PurchaseCost, int, error) {
	return s.repo.ListCosts(ctx, filters)
}

func (s *Service) GetCost(ctx context.Context, id string) (PurchaseCost, error) {
	return s.repo.GetCost(ctx, id)
}

func (s *Service) CreateCost(ctx context.Context, req CreateCostRequest) (PurchaseCost, error) {
	if _, err := s.products.GetProduct(ctx, req.ProductID); err != nil {
		return PurchaseCost{}, fmt.Errorf("verify product: %w", err)
	}

	cost := PurchaseCost{
		ID:            uuid.NewString(),
		ProductID:     req.ProductID,
		Amount:        req.Amount,
		CostType:      req.CostType,
		Vendor:        req.Vendor,
		EffectiveDate: s.now(),
		Notes:         req.Notes,
		Active:        true,
	}
	if req.EffectiveDate != nil {
		cost.EffectiveDate = *req.EffectiveDate
	}
	if req.Active != nil {
		cost.Active = *req.Active
	}

	if errs := ValidateCost(cost); errs != nil {
		return PurchaseCost{}, errs
	}

	siblings, _, err := s.repo.ListCosts(ctx, ListFilters{ProductID: &req.ProductID})
	if err != nil {
		return PurchaseCost{}, fmt.Errorf("snapshot costs: %w", err)
	}
	if conflict := CheckCostUniqueness(cost, siblings); conflict != nil {
		return PurchaseCost{}, conflict
	}

	return s.repo.CreateCost(ctx, cost)
}

func (s *Service) UpdateCost(ctx context.Context, id string, req UpdateCostRequest) (PurchaseCost, error) {
	existing, err := s.repo.GetCost(ctx, id)
	if err != nil {
		return PurchaseCost{}, fmt.Errorf("get cost: %w", err)
	}

	if req.Amount != nil {
		existing.Amount = *req.Amount
	}
	if req.CostType != nil {
		existing.CostType = *req.CostType
	}
	if req.Vendor != nil {
		existing.Vendor = *req.Vendor
	}
	if req.EffectiveDate != nil {
		existing.EffectiveDate = *req.EffectiveDate
	}
	if req.Notes != nil {
		existing.Notes = *req.Notes
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if errs := ValidateCost(existing); errs != nil {
		return PurchaseCost{}, errs
	}

	siblings, _, err := s.repo.ListCosts(ctx, ListFilters{ProductID: &existing.ProductID})
	if err != nil {
		return PurchaseCost{}, fmt.Errorf("snapshot costs: %w", err)
	}
	if conflict := CheckCostUniqueness(existing, siblings); conflict != nil {
		return PurchaseCost{}, conflict
	}

	if err := s.repo.UpdateCost(ctx, id, existing); err != nil {
		return PurchaseCost{}, err
	}
	return s.repo.GetCost(ctx, id)
}

func (s *Service) DeleteCost(ctx context.Context, id string) error {
	if _, err := s.repo.GetCost(ctx, id); err != nil {
		return fmt.Errorf("get cost: %w", err)
	}
	return s.repo.DeleteCost(ctx, id)
}

// Sales price operations

func (s *Service) ListPrices(ctx context.Context, filters ListFilters) ([]SalesPrice, int, error) {
	return s.repo.ListPrices(ctx, filters)
}

func (s *Service) GetPrice(ctx context.Context, id string) (SalesPrice, error) {
	return s.repo.GetPrice(ctx, id)
}

func (s *Service) CreatePrice(ctx context.Context, req CreatePriceRequest) (SalesPrice, error) {
	if _, err := s.products.GetProduct(ctx, req.ProductID); err != nil {
		return SalesPrice{}, fmt.Errorf("verify product: %w", err)
	}
	if _, err := s.repo.GetRateCard(ctx, req.RateCardID); err != nil {
		return SalesPrice{}, fmt.Errorf("verify rate card: %w", err)
	}

	price := SalesPrice{
		ID:            uuid.NewString(),
		RateCardID:    req.RateCardID,
		ProductID:     req.ProductID,
		Amount:        req.Amount,
		PricingType:   req.PricingType,
		EffectiveDate: s.now(),
		Active:        true,
	}
	if req.EffectiveDate != nil {
		price.EffectiveDate = *req.EffectiveDate
	}
	if req.Active != nil {
		price.Active = *req.Active
	}

	if errs := ValidatePrice(price); errs != nil {
		return SalesPrice{}, errs
	}

	siblings, _, err := s.repo.ListPrices(ctx, ListFilters{RateCardID: &req.RateCardID})
	if err != nil {
		return SalesPrice{}, fmt.Errorf("snapshot prices: %w", err)
	}
	if conflict := CheckPriceUniqueness(price, siblings); conflict != nil {
		return SalesPrice{}, conflict
	}

	return s.repo.CreatePrice(ctx, price)
}

func (s *Service) UpdatePrice(ctx context.Context, id string, req UpdatePriceRequest) (SalesPrice, error) {
	existing, err := s.repo.GetPrice(ctx, id)
	if err != nil {
		return SalesPrice{}, fmt.Errorf("get price: %w", err)
	}

	if req.Amount != nil {
		existing.Amount = *req.Amount
	}
	if req.PricingType != nil {
		existing.PricingType = *req.PricingType
	}
	if req.EffectiveDate != nil {
		existing.EffectiveDate = *req.EffectiveDate
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if errs := ValidatePrice(existing); errs != nil {
		return SalesPrice{}, errs
	}

	if err := s.repo.UpdatePrice(ctx, id, existing); err != nil {
		return SalesPrice{}, err
	}
	return s.repo.GetPrice(ctx, id)
}

func (s *Service) DeletePrice(ctx context.Context, id string) error {
	if _, err := s.repo.GetPrice(ctx, id); err != nil {
		return fmt.Errorf("get price: %w", err)
	}
	return s.repo.DeletePrice(ctx, id)
}

// Margin operations

// ProductMargin derives the margin for a product from its standard cost and
// its price in the reference rate card. Computed fresh on every call.
func (s *Service) ProductMargin(ctx context.Context, productID string) (MarginReport, error) {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return MarginReport{}, fmt.Errorf("verify product: %w", err)
	}

	report := MarginReport{ProductID: productID}

	cost, ok, err := s.standardCost(ctx, productID)
	if err != nil {
		return MarginReport{}, err
	}
	if !ok {
		return report, nil
	}
	report.CostAmount = cost.Amount

	cards, _, err := s.repo.ListRateCards(ctx, ListFilters{})
	if err != nil {
		return MarginReport{}, fmt.Errorf("snapshot rate cards: %w", err)
	}
	card, ok := SelectReferenceCard(cards)
	if !ok {
		return report, nil
	}
	report.RateCardID = card.ID

	price, ok, err := s.priceFor(ctx, card.ID, productID)
	if err != nil {
		return MarginReport{}, err
	}
	if !ok {
		return report, nil
	}
	report.PriceAmount = price.Amount

	if margin, defined := ComputeMargin(cost.Amount, price.Amount); defined {
		report.Defined = true
		report.Margin = &margin
	}
	return report, nil
}

// CostMargin derives the margin starting from a purchase cost record.
func (s *Service) CostMargin(ctx context.Context, costID string) (MarginReport, error) {
	cost, err := s.repo.GetCost(ctx, costID)
	if err != nil {
		return MarginReport{}, fmt.Errorf("get cost: %w", err)
	}

	report := MarginReport{ProductID: cost.ProductID, CostAmount: cost.Amount}

	cards, _, err := s.repo.ListRateCards(ctx, ListFilters{})
	if err != nil {
		return MarginReport{}, fmt.Errorf("snapshot rate cards: %w", err)
	}
	card, ok := SelectReferenceCard(cards)
	if !ok {
		return report, nil
	}
	report.RateCardID = card.ID

	price, ok, err := s.priceFor(ctx, card.ID, cost.ProductID)
	if err != nil {
		return MarginReport{}, err
	}
	if !ok {
		return report, nil
	}
	report.PriceAmount = price.Amount

	if margin, defined := ComputeMargin(cost.Amount, price.Amount); defined {
		report.Defined = true
		report.Margin = &margin
	}
	return report, nil
}

func (s *Service) standardCost(ctx context.Context, productID string) (PurchaseCost, bool, error) {
	costType := CostStandard
	costs, _, err := s.repo.ListCosts(ctx, ListFilters{ProductID: &productID, CostType: &costType})
	if err != nil {
		return PurchaseCost{}, false, fmt.Errorf("snapshot costs: %w", err)
	}
	for _, cost := range costs {
		if cost.Active {
			return cost, true, nil
		}
	}
	return PurchaseCost{}, false, nil
}

func (s *Service) priceFor(ctx context.Context, rateCardID, productID string) (SalesPrice, bool, error) {
	prices, _, err := s.repo.ListPrices(ctx, ListFilters{RateCardID: &rateCardID, ProductID: &productID})
	if err != nil {
		return SalesPrice{}, false, fmt.Errorf("snapshot prices: %w", err)
	}
	if len(prices) == 0 {
		return SalesPrice{}, false, nil
	}
	return prices[0], true, nil
}

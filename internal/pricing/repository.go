package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadhub-crm/leadhub-crm/internal/shared"
)

const uniqueViolation = "23505"

// repo implements Repository against PostgreSQL.
type repo struct {
	db *pgxpool.Pool
}

// NewRepository creates a pricing store backed by the given pool.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repo{db: db}
}

func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", shared.ErrConflict, pgErr.ConstraintName)
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
}

// Rate cards

func (r *repo) ListRateCards(ctx context.Context, filters ListFilters) ([]RateCard, int, error) {
	var conditions []string
	var args []interface{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d)", len(args), len(args)))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	where := joinWhere(conditions)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM rate_cards"+where, args...).Scan(&total); err != nil {
		return nil, 0, mapStoreError(err)
	}

	query := `SELECT id, name, code, effective_from, effective_to, description, active, pricing_tier, is_reference, created_at, updated_at
	          FROM rate_cards` + where + ` ORDER BY effective_from DESC, name` + limitOffset(filters)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	defer rows.Close()

	var cards []RateCard
	for rows.Next() {
		var c RateCard
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.EffectiveFrom, &c.EffectiveTo, &c.Description,
			&c.Active, &c.PricingTier, &c.IsReference, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, mapStoreError(err)
		}
		cards = append(cards, c)
	}
	return cards, total, mapStoreError(rows.Err())
}

func (r *repo) GetRateCard(ctx context.Context, id string) (RateCard, error) {
	query := `SELECT id, name, code, effective_from, effective_to, description, active, pricing_tier, is_reference, created_at, updated_at
	          FROM rate_cards WHERE id = $1`
	var c RateCard
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Code, &c.EffectiveFrom, &c.EffectiveTo,
		&c.Description, &c.Active, &c.PricingTier, &c.IsReference, &c.CreatedAt, &c.UpdatedAt)
	return c, mapStoreError(err)
}

func (r *repo) CreateRateCard(ctx context.Context, card RateCard) (RateCard, error) {
	query := `INSERT INTO rate_cards (id, name, code, effective_from, effective_to, description, active, pricing_tier, is_reference, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`
	now := time.Now()
	_, err := r.db.Exec(ctx, query, card.ID, card.Name, card.Code, card.EffectiveFrom, card.EffectiveTo,
		card.Description, card.Active, card.PricingTier, card.IsReference, now)
	if err != nil {
		return RateCard{}, mapStoreError(err)
	}
	card.CreatedAt = now
	card.UpdatedAt = now
	return card, nil
}

func (r *repo) UpdateRateCard(ctx context.Context, id string, card RateCard) error {
	query := `UPDATE rate_cards SET name = $1, code = $2, effective_from = $3, effective_to = $4, description = $5,
	          active = $6, pricing_tier = $7, is_reference = $8, updated_at = $9 WHERE id = $10`
	tag, err := r.db.Exec(ctx, query, card.Name, card.Code, card.EffectiveFrom, card.EffectiveTo,
		card.Description, card.Active, card.PricingTier, card.IsReference, time.Now(), id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteRateCard(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rate_cards WHERE id = $1`, id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Purchase costs

func (r *repo) ListCosts(ctx context.Context, filters ListFilters) ([]PurchaseCost, int, error) {
	var conditions []string
	var args []interface{}
	if filters.ProductID != nil {
		args = append(args, *filters.ProductID)
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filters.CostType != nil {
		args = append(args, *filters.CostType)
		conditions = append(conditions, fmt.Sprintf("cost_type = $%d", len(args)))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	where := joinWhere(conditions)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM purchase_costs"+where, args...).Scan(&total); err != nil {
		return nil, 0, mapStoreError(err)
	}

	query := `SELECT id, product_id, amount, cost_type, vendor, effective_date, notes, active, created_at, updated_at
	          FROM purchase_costs` + where + ` ORDER BY effective_date DESC` + limitOffset(filters)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	defer rows.Close()

	var costs []PurchaseCost
	for rows.Next() {
		var c PurchaseCost
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Amount, &c.CostType, &c.Vendor, &c.EffectiveDate,
			&c.Notes, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, mapStoreError(err)
		}
		costs = append(costs, c)
	}
	return costs, total, mapStoreError(rows.Err())
}

func (r *repo) GetCost(ctx context.Context, id string) (PurchaseCost, error) {
	query := `SELECT id, product_id, amount, cost_type, vendor, effective_date, notes, active, created_at, updated_at
	          FROM purchase_costs WHERE id = $1`
	var c PurchaseCost
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.ProductID, &c.Amount, &c.CostType, &c.Vendor,
		&c.EffectiveDate, &c.Notes, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, mapStoreError(err)
}

func (r *repo) CreateCost(ctx context.Context, cost PurchaseCost) (PurchaseCost, error) {
	query := `INSERT INTO purchase_costs (id, product_id, amount, cost_type, vendor, effective_date, notes, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`
	now := time.Now()
	_, err := r.db.Exec(ctx, query, cost.ID, cost.ProductID, cost.Amount, cost.CostType, cost.Vendor,
		cost.EffectiveDate, cost.Notes, cost.Active, now)
	if err != nil {
		return PurchaseCost{}, mapStoreError(err)
	}
	cost.CreatedAt = now
	cost.UpdatedAt = now
	return cost, nil
}

func (r *repo) UpdateCost(ctx context.Context, id string, cost PurchaseCost) error {
	query := `UPDATE purchase_costs SET amount = $1, cost_type = $2, vendor = $3, effective_date = $4,
	          notes = $5, active = $6, updated_at = $7 WHERE id = $8`
	tag, err := r.db.Exec(ctx, query, cost.Amount, cost.CostType, cost.Vendor, cost.EffectiveDate,
		cost.Notes, cost.Active, time.Now(), id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteCost(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM purchase_costs WHERE id = $1`, id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Sales prices

func (r *repo) ListPrices(ctx context.Context, filters ListFilters) ([]SalesPrice, int, error) {
	var conditions []string
	var args []interface{}
	if filters.RateCardID != nil {
		args = append(args, *filters.RateCardID)
		conditions = append(conditions, fmt.Sprintf("rate_card_id = $%d", len(args)))
	}
	if filters.ProductID != nil {
		args = append(args, *filters.ProductID)
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	where := joinWhere(conditions)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM sales_prices"+where, args...).Scan(&total); err != nil {
		return nil, 0, mapStoreError(err)
	}

	query := `SELECT id, rate_card_id, product_id, amount, pricing_type, effective_date, active, created_at, updated_at
	          FROM sales_prices` + where + ` ORDER BY effective_date DESC` + limitOffset(filters)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	defer rows.Close()

	var prices []SalesPrice
	for rows.Next() {
		var p SalesPrice
		if err := rows.Scan(&p.ID, &p.RateCardID, &p.ProductID, &p.Amount, &p.PricingType,
			&p.EffectiveDate, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, mapStoreError(err)
		}
		prices = append(prices, p)
	}
	return prices, total, mapStoreError(rows.Err())
}

func (r *repo) GetPrice(ctx context.Context, id string) (SalesPrice, error) {
	query := `SELECT id, rate_card_id, product_id, amount, pricing_type, effective_date, active, created_at, updated_at
	          FROM sales_prices WHERE id = $1`
	var p SalesPrice
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.RateCardID, &p.ProductID, &p.Amount,
		&p.PricingType, &p.EffectiveDate, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, mapStoreError(err)
}

func (r *repo) CreatePrice(ctx context.Context, price SalesPrice) (SalesPrice, error) {
	query := `INSERT INTO sales_prices (id, rate_card_id, product_id, amount, pricing_type, effective_date, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	now := time.Now()
	_, err := r.db.Exec(ctx, query, price.ID, price.RateCardID, price.ProductID, price.Amount,
		price.PricingType, price.EffectiveDate, price.Active, now)
	if err != nil {
		return SalesPrice{}, mapStoreError(err)
	}
	price.CreatedAt = now
	price.UpdatedAt = now
	return price, nil
}

func (r *repo) UpdatePrice(ctx context.Context, id string, price SalesPrice) error {
	query := `UPDATE sales_prices SET amount = $1, pricing_type = $2, effective_date = $3, active = $4, updated_at = $5 WHERE id = $6`
	tag, err := r.db.Exec(ctx, query, price.Amount, price.PricingType, price.EffectiveDate, price.Active, time.Now(), id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repo) DeletePrice(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales_prices WHERE id = $1`, id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func joinWhere(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	where := " WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		where += " AND " + c
	}
	return where
}

func limitOffset(filters ListFilters) string {
	if filters.Limit <= 0 {
		return ""
	}
	offset := 0
	if filters.Page > 1 {
		offset = (filters.Page - 1) * filters.Limit
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", filters.Limit, offset)
}

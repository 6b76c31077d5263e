package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadhub-crm/leadhub-crm/internal/platform/db"
	"github.com/leadhub-crm/leadhub-crm/internal/shared"
)

const uniqueViolation = "23505"

// repo implements Repository against PostgreSQL.
type repo struct {
	db *pgxpool.Pool
}

// NewRepository creates a catalog store backed by the given pool.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repo{db: db}
}

// mapStoreError translates driver errors into the engine taxonomy. Unique
// violations become conflicts: the database is the authoritative uniqueness
// check, since concurrent submissions can race past the advisory one.
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

func (r *repo) ListCategories(ctx context.Context, filters ListFilters) ([]PrimaryCategory, int, error) {
	where, args := buildCategoryWhere(filters)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM categories"+where, args...).Scan(&total); err != nil {
		return nil, 0, mapStoreError(err)
	}

	query := `SELECT id, name, code, description, active, created_at, updated_at FROM categories` +
		where + ` ORDER BY name` + limitOffset(filters)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	defer rows.Close()

	var categories []PrimaryCategory
	for rows.Next() {
		var c PrimaryCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, mapStoreError(err)
		}
		categories = append(categories, c)
	}
	return categories, total, mapStoreError(rows.Err())
}

func (r *repo) GetCategory(ctx context.Context, id string) (PrimaryCategory, error) {
	query := `SELECT id, name, code, description, active, created_at, updated_at FROM categories WHERE id = $1`
	var c PrimaryCategory
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, mapStoreError(err)
}

func (r *repo) CreateCategory(ctx context.Context, category PrimaryCategory) (PrimaryCategory, error) {
	query := `INSERT INTO categories (id, name, code, description, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $6)`
	now := time.Now()
	_, err := r.db.Exec(ctx, query, category.ID, category.Name, category.Code, category.Description, category.Active, now)
	if err != nil {
		return PrimaryCategory{}, mapStoreError(err)
	}
	category.CreatedAt = now
	category.UpdatedAt = now
	return category, nil
}

func (r *repo) UpdateCategory(ctx context.Context, id string, category PrimaryCategory) error {
	query := `UPDATE categories SET name = $1, code = $2, description = $3, active = $4, updated_at = $5 WHERE id = $6`
	tag, err := r.db.Exec(ctx, query, category.Name, category.Code, category.Description, category.Active, time.Now(), id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category unless products still reference it. The
// check and the delete run in one transaction so a concurrent product insert
// cannot slip between them.
func (r *repo) DeleteCategory(ctx context.Context, id string) error {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var inUse int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&inUse); err != nil {
			return err
		}
		if inUse > 0 {
			return shared.NewConflict("category_id", "category still has products")
		}
		tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrConflict) {
		return err
	}
	return mapStoreError(err)
}

func (r *repo) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	where, args := buildProductWhere(filters)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, mapStoreError(err)
	}

	query := `SELECT id, name, product_code, squ_code, category_id, unit, description, active, created_at, updated_at FROM products` +
		where + ` ORDER BY name` + limitOffset(filters)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.ProductCode, &p.SQUCode, &p.CategoryID, &p.Unit, &p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, mapStoreError(err)
		}
		products = append(products, p)
	}
	return products, total, mapStoreError(rows.Err())
}

func (r *repo) GetProduct(ctx context.Context, id string) (Product, error) {
	query := `SELECT id, name, product_code, squ_code, category_id, unit, description, active, created_at, updated_at FROM products WHERE id = $1`
	var p Product
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.ProductCode, &p.SQUCode, &p.CategoryID, &p.Unit, &p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, mapStoreError(err)
}

func (r *repo) CreateProduct(ctx context.Context, product Product) (Product, error) {
	query := `INSERT INTO products (id, name, product_code, squ_code, category_id, unit, description, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`
	now := time.Now()
	_, err := r.db.Exec(ctx, query, product.ID, product.Name, product.ProductCode, product.SQUCode,
		product.CategoryID, product.Unit, product.Description, product.Active, now)
	if err != nil {
		return Product{}, mapStoreError(err)
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

func (r *repo) UpdateProduct(ctx context.Context, id string, product Product) error {
	query := `UPDATE products SET name = $1, category_id = $2, unit = $3, description = $4, active = $5, updated_at = $6 WHERE id = $7`
	tag, err := r.db.Exec(ctx, query, product.Name, product.CategoryID, product.Unit, product.Description, product.Active, time.Now(), id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func buildCategoryWhere(filters ListFilters) (string, []interface{}) {
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
	return joinWhere(conditions), args
}

func buildProductWhere(filters ListFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR product_code ILIKE $%d OR squ_code ILIKE $%d)", len(args), len(args), len(args)))
	}
	if filters.IsActive != nil {
		args = append(args, *filters.IsActive)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	return joinWhere(conditions), args
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

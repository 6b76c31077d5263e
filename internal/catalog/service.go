package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service implements master-data business logic: code derivation on the
// creation path, advisory uniqueness checks against a sibling snapshot, and
// delegation to the catalog store.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the time source. Used by tests that pin the
// millisecond suffix of generated codes.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Category operations

func (s *Service) ListCategories(ctx context.Context, filters ListFilters) ([]PrimaryCategory, int, error) {
	return s.repo.ListCategories(ctx, filters)
}

func (s *Service) GetCategory(ctx context.Context, id string) (PrimaryCategory, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (PrimaryCategory, error) {
	code := req.Code
	if code == "" {
		code = CategoryCode(req.Name)
	}

	category := PrimaryCategory{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Code:        code,
		Description: req.Description,
		Active:      true,
	}
	if req.Active != nil {
		category.Active = *req.Active
	}

	if errs := ValidateCategory(category); errs != nil {
		return PrimaryCategory{}, errs
	}

	siblings, _, err := s.repo.ListCategories(ctx, ListFilters{})
	if err != nil {
		return PrimaryCategory{}, fmt.Errorf("snapshot categories: %w", err)
	}
	if conflict := CheckCategoryUniqueness(category, siblings); conflict != nil {
		return PrimaryCategory{}, conflict
	}

	return s.repo.CreateCategory(ctx, category)
}

func (s *Service) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (PrimaryCategory, error) {
	existing, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return PrimaryCategory{}, fmt.Errorf("get category: %w", err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	// The code is a stable identifier after creation: it changes only on an
	// explicit edit, never as a side effect of renaming.
	if req.Code != nil {
		existing.Code = *req.Code
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if errs := ValidateCategory(existing); errs != nil {
		return PrimaryCategory{}, errs
	}

	siblings, _, err := s.repo.ListCategories(ctx, ListFilters{})
	if err != nil {
		return PrimaryCategory{}, fmt.Errorf("snapshot categories: %w", err)
	}
	if conflict := CheckCategoryUniqueness(existing, siblings); conflict != nil {
		return PrimaryCategory{}, conflict
	}

	if err := s.repo.UpdateCategory(ctx, id, existing); err != nil {
		return PrimaryCategory{}, err
	}
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.repo.GetCategory(ctx, id); err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	return s.repo.DeleteCategory(ctx, id)
}

// PreviewCategoryCode derives a code without persisting anything.
func (s *Service) PreviewCategoryCode(name string) CodePreview {
	return CodePreview{Code: CategoryCode(name)}
}

// Product operations

func (s *Service) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.ListProducts(ctx, filters)
}

func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (Product, error) {
	category, err := s.repo.GetCategory(ctx, req.CategoryID)
	if err != nil {
		return Product{}, fmt.Errorf("verify category: %w", err)
	}

	now := s.now()
	productCode := req.ProductCode
	if productCode == "" {
		productCode = ProductCode(req.Name, category.Code, now)
	}
	squCode := req.SQUCode
	if squCode == "" {
		squCode = SQUCode(req.Name, category.Code, now)
	}

	product := Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		ProductCode: productCode,
		SQUCode:     squCode,
		CategoryID:  req.CategoryID,
		Unit:        req.Unit,
		Description: req.Description,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if errs := ValidateProduct(product); errs != nil {
		return Product{}, errs
	}

	siblings, _, err := s.repo.ListProducts(ctx, ListFilters{})
	if err != nil {
		return Product{}, fmt.Errorf("snapshot products: %w", err)
	}
	if conflict := CheckProductUniqueness(product, siblings); conflict != nil {
		return Product{}, conflict
	}

	return s.repo.CreateProduct(ctx, product)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (Product, error) {
	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			return Product{}, fmt.Errorf("verify category: %w", err)
		}
		existing.CategoryID = *req.CategoryID
	}
	if req.Unit != nil {
		existing.Unit = *req.Unit
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if errs := ValidateProduct(existing); errs != nil {
		return Product{}, errs
	}

	if err := s.repo.UpdateProduct(ctx, id, existing); err != nil {
		return Product{}, err
	}
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.repo.GetProduct(ctx, id); err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	return s.repo.DeleteProduct(ctx, id)
}

// PreviewProductCodes derives both product codes without persisting anything.
func (s *Service) PreviewProductCodes(ctx context.Context, name, categoryID string) (CodePreview, error) {
	categoryCode := ""
	if categoryID != "" {
		category, err := s.repo.GetCategory(ctx, categoryID)
		if err != nil {
			return CodePreview{}, fmt.Errorf("verify category: %w", err)
		}
		categoryCode = category.Code
	}
	now := s.now()
	return CodePreview{
		Code:    ProductCode(name, categoryCode, now),
		SQUCode: SQUCode(name, categoryCode, now),
	}, nil
}

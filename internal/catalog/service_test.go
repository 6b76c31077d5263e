package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadhub-crm/leadhub-crm/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	categories map[string]*PrimaryCategory
	products   map[string]*Product

	listCategoriesError error
	createProductError  error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		categories: make(map[string]*PrimaryCategory),
		products:   make(map[string]*Product),
	}
}

func (m *mockRepository) ListCategories(ctx context.Context, filters ListFilters) ([]PrimaryCategory, int, error) {
	if m.listCategoriesError != nil {
		return nil, 0, m.listCategoriesError
	}
	var result []PrimaryCategory
	for _, c := range m.categories {
		result = append(result, *c)
	}
	return result, len(result), nil
}

func (m *mockRepository) GetCategory(ctx context.Context, id string) (PrimaryCategory, error) {
	c, ok := m.categories[id]
	if !ok {
		return PrimaryCategory{}, shared.ErrNotFound
	}
	return *c, nil
}

func (m *mockRepository) CreateCategory(ctx context.Context, category PrimaryCategory) (PrimaryCategory, error) {
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.categories[category.ID] = &category
	return category, nil
}

func (m *mockRepository) UpdateCategory(ctx context.Context, id string, category PrimaryCategory) error {
	if _, ok := m.categories[id]; !ok {
		return shared.ErrNotFound
	}
	category.ID = id
	m.categories[id] = &category
	return nil
}

func (m *mockRepository) DeleteCategory(ctx context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockRepository) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	var result []Product
	for _, p := range m.products {
		if filters.CategoryID != nil && p.CategoryID != *filters.CategoryID {
			continue
		}
		result = append(result, *p)
	}
	return result, len(result), nil
}

func (m *mockRepository) GetProduct(ctx context.Context, id string) (Product, error) {
	p, ok := m.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return *p, nil
}

func (m *mockRepository) CreateProduct(ctx context.Context, product Product) (Product, error) {
	if m.createProductError != nil {
		return Product{}, m.createProductError
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	m.products[product.ID] = &product
	return product, nil
}

func (m *mockRepository) UpdateProduct(ctx context.Context, id string, product Product) error {
	if _, ok := m.products[id]; !ok {
		return shared.ErrNotFound
	}
	product.ID = id
	m.products[id] = &product
	return nil
}

func (m *mockRepository) DeleteProduct(ctx context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

// fixedClock pins the millisecond suffix of generated codes.
func fixedClock(ms int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 0, ms*int(time.Millisecond), time.UTC)
	}
}

func seedCategory(m *mockRepository, id, name, code string) {
	m.categories[id] = &PrimaryCategory{ID: id, Name: name, Code: code, Active: true}
}

// ============================================================================
// CATEGORY TESTS
// ============================================================================

func TestCreateCategoryGeneratesCode(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	category, err := svc.CreateCategory(context.Background(), CreateCategoryRequest{Name: "Software Development"})
	require.NoError(t, err)
	assert.Equal(t, "SD", category.Code)
	assert.NotEmpty(t, category.ID)
	assert.True(t, category.Active)
}

func TestCreateCategoryKeepsUserCode(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	category, err := svc.CreateCategory(context.Background(), CreateCategoryRequest{Name: "Software Development", Code: "SOFT"})
	require.NoError(t, err)
	assert.Equal(t, "SOFT", category.Code)
}

func TestCreateCategoryRejectsDuplicateCode(t *testing.T) {
	repo := newMockRepository()
	seedCategory(repo, "c1", "Software Development", "SD")
	svc := NewService(repo)

	_, err := svc.CreateCategory(context.Background(), CreateCategoryRequest{Name: "Service Desk", Code: "sd"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrConflict)

	var conflict *shared.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Fields, "code")
}

func TestCreateCategoryEmptyName(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.CreateCategory(context.Background(), CreateCategoryRequest{Name: ""})
	require.Error(t, err)

	ve, ok := shared.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve, "name")
	assert.Contains(t, ve, "code")
}

func TestUpdateCategoryDoesNotRegenerateCode(t *testing.T) {
	repo := newMockRepository()
	seedCategory(repo, "c1", "Software Development", "SD")
	svc := NewService(repo)

	name := "Software Engineering"
	updated, err := svc.UpdateCategory(context.Background(), "c1", UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Software Engineering", updated.Name)
	assert.Equal(t, "SD", updated.Code, "code must stay stable after creation")
}

func TestUpdateCategoryNotFound(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	name := "x"
	_, err := svc.UpdateCategory(context.Background(), "missing", UpdateCategoryRequest{Name: &name})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateCategorySnapshotFailure(t *testing.T) {
	repo := newMockRepository()
	repo.listCategoriesError = shared.ErrStoreUnavailable
	svc := NewService(repo)

	_, err := svc.CreateCategory(context.Background(), CreateCategoryRequest{Name: "Software Development"})
	assert.ErrorIs(t, err, shared.ErrStoreUnavailable)
}

// ============================================================================
// PRODUCT TESTS
// ============================================================================

func TestCreateProductGeneratesBothCodes(t *testing.T) {
	repo := newMockRepository()
	seedCategory(repo, "c1", "Software Development", "SD")
	svc := NewService(repo).WithClock(fixedClock(42))

	product, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:       "Custom Web App",
		CategoryID: "c1",
		Unit:       UnitProject,
	})
	require.NoError(t, err)
	assert.Equal(t, "SD-CUS-042", product.ProductCode)
	assert.Equal(t, "SQU-SD-CUS-042", product.SQUCode)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:       "Custom Web App",
		CategoryID: "missing",
		Unit:       UnitProject,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateProductInvalidUnit(t *testing.T) {
	repo := newMockRepository()
	seedCategory(repo, "c1", "Software Development", "SD")
	svc := NewService(repo)

	_, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:       "Custom Web App",
		CategoryID: "c1",
		Unit:       Unit("Barrel"),
	})
	require.Error(t, err)
	ve, ok := shared.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve, "unit")
}

func TestCreateProductRejectsCodeCollision(t *testing.T) {
	repo := newMockRepository()
	seedCategory(repo, "c1", "Software Development", "SD")
	repo.products["p1"] = &Product{
		ID: "p1", Name: "Existing", ProductCode: "SD-CUS-042", SQUCode: "SQU-SD-CUS-042",
		CategoryID: "c1", Unit: UnitProject,
	}
	svc := NewService(repo).WithClock(fixedClock(42))

	_, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:       "Customer Portal", // same first three letters, same suffix
		CategoryID: "c1",
		Unit:       UnitProject,
	})
	require.Error(t, err)

	var conflict *shared.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Fields, "product_code")
	assert.Contains(t, conflict.Fields, "squ_code")
}

func TestUpdateProductKeepsCodes(t *testing.T) {
	repo := newMockRepository()
	seedCategory(repo, "c1", "Software Development", "SD")
	repo.products["p1"] = &Product{
		ID: "p1", Name: "Custom Web App", ProductCode: "SD-CUS-042", SQUCode: "SQU-SD-CUS-042",
		CategoryID: "c1", Unit: UnitProject, Active: true,
	}
	svc := NewService(repo)

	name := "Custom Web Application"
	updated, err := svc.UpdateProduct(context.Background(), "p1", UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "SD-CUS-042", updated.ProductCode, "edits must not regenerate codes")
	assert.Equal(t, "SQU-SD-CUS-042", updated.SQUCode)
}

func TestCreateProductStoreConflictPropagates(t *testing.T) {
	// A concurrent submission can race past the advisory check; the store's
	// rejection must surface unchanged.
	repo := newMockRepository()
	seedCategory(repo, "c1", "Software Development", "SD")
	repo.createProductError = shared.ErrConflict
	svc := NewService(repo).WithClock(fixedClock(42))

	_, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name:       "Custom Web App",
		CategoryID: "c1",
		Unit:       UnitProject,
	})
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestPreviewProductCodes(t *testing.T) {
	repo := newMockRepository()
	seedCategory(repo, "c1", "Software Development", "SD")
	svc := NewService(repo).WithClock(fixedClock(7))

	preview, err := svc.PreviewProductCodes(context.Background(), "Custom Web App", "c1")
	require.NoError(t, err)
	assert.Equal(t, "SD-CUS-007", preview.Code)
	assert.Equal(t, "SQU-SD-CUS-007", preview.SQUCode)

	preview, err = svc.PreviewProductCodes(context.Background(), "Custom Web App", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(preview.Code, "PRD-"))
}

func TestDeleteProductNotFound(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	err := svc.DeleteProduct(context.Background(), "missing")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

package catalog

import (
	"context"
	"time"
)

// Unit enumerates the selling units a product can be quoted in.
type Unit string

const (
	UnitProject Unit = "Project"
	UnitLicense Unit = "License"
	UnitMonth   Unit = "Month"
	UnitDays    Unit = "Days"
	UnitHours   Unit = "Hours"
	UnitPiece   Unit = "Piece"
	UnitCourse  Unit = "Course"
	UnitPackage Unit = "Package"
)

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	switch u {
	case UnitProject, UnitLicense, UnitMonth, UnitDays, UnitHours, UnitPiece, UnitCourse, UnitPackage:
		return true
	}
	return false
}

// PrimaryCategory groups products for navigation and code derivation.
type PrimaryCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a sellable catalog item. ProductCode and SQUCode are each
// case-insensitively unique across all products.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ProductCode string    `json:"product_code"`
	SQUCode     string    `json:"squ_code"`
	CategoryID  string    `json:"category_id"`
	Unit        Unit      `json:"unit"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListFilters represents standard list page filters.
type ListFilters struct {
	Page       int
	Limit      int
	Search     string
	IsActive   *bool
	CategoryID *string
}

// Repository is the catalog store contract for master data. The store is
// authoritative for uniqueness; in-memory checks here are advisory.
type Repository interface {
	ListCategories(ctx context.Context, filters ListFilters) ([]PrimaryCategory, int, error)
	GetCategory(ctx context.Context, id string) (PrimaryCategory, error)
	CreateCategory(ctx context.Context, category PrimaryCategory) (PrimaryCategory, error)
	UpdateCategory(ctx context.Context, id string, category PrimaryCategory) error
	DeleteCategory(ctx context.Context, id string) error

	ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, product Product) (Product, error)
	UpdateProduct(ctx context.Context, id string, product Product) error
	DeleteProduct(ctx context.Context, id string) error
}

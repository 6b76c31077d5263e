package catalog

import (
	"strings"

	"github.com/leadhub-crm/leadhub-crm/internal/shared"
)

// ValidateCategory checks the candidate's own fields. Returns nil when valid.
func ValidateCategory(candidate PrimaryCategory) shared.ValidationError {
	errs := shared.ValidationError{}
	if strings.TrimSpace(candidate.Name) == "" {
		errs["name"] = "category name is required"
	}
	if strings.TrimSpace(candidate.Code) == "" {
		errs["code"] = "category code is required"
	} else if len([]rune(candidate.Code)) > 5 {
		errs["code"] = "category code must be at most 5 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CheckCategoryUniqueness decides whether the candidate may be accepted given
// the current sibling snapshot. Comparison is case-insensitive and the
// candidate itself is excluded by identifier. The result is advisory; the
// store's unique constraint remains authoritative under concurrent writes.
func CheckCategoryUniqueness(candidate PrimaryCategory, siblings []PrimaryCategory) *shared.ConflictError {
	for _, other := range siblings {
		if other.ID == candidate.ID {
			continue
		}
		if strings.EqualFold(other.Code, candidate.Code) {
			return shared.NewConflict("code", "a category with this code already exists")
		}
	}
	return nil
}

// ValidateProduct checks the candidate's own fields. Returns nil when valid.
func ValidateProduct(candidate Product) shared.ValidationError {
	errs := shared.ValidationError{}
	if strings.TrimSpace(candidate.Name) == "" {
		errs["name"] = "product name is required"
	}
	if strings.TrimSpace(candidate.ProductCode) == "" {
		errs["product_code"] = "product code is required"
	}
	if strings.TrimSpace(candidate.SQUCode) == "" {
		errs["squ_code"] = "SQU code is required"
	}
	if candidate.CategoryID == "" {
		errs["category_id"] = "category is required"
	}
	if !candidate.Unit.Valid() {
		errs["unit"] = "unit must be one of Project, License, Month, Days, Hours, Piece, Course, Package"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CheckProductUniqueness enforces that both product_code and squ_code are
// singular across products. A collision on either code rejects the record and
// reports both fields, since the pair identifies the same product.
func CheckProductUniqueness(candidate Product, siblings []Product) *shared.ConflictError {
	for _, other := range siblings {
		if other.ID == candidate.ID {
			continue
		}
		if strings.EqualFold(other.ProductCode, candidate.ProductCode) ||
			strings.EqualFold(other.SQUCode, candidate.SQUCode) {
			return &shared.ConflictError{Fields: map[string]string{
				"product_code": "a product with this code or SQU code already exists",
				"squ_code":     "a product with this code or SQU code already exists",
			}}
		}
	}
	return nil
}

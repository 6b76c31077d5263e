package catalog

// CreateCategoryRequest carries a new category submission. Code is optional;
// when absent it is derived from the name on the creation path only.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"omitempty,max=5"`
	Description string `json:"description,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// UpdateCategoryRequest carries a partial category update. The code is never
// regenerated on this path; it only changes when explicitly provided.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty" validate:"omitempty,max=5"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// CreateProductRequest carries a new product submission. Both codes are
// derived from name + category + a time-based suffix unless provided.
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required"`
	ProductCode string `json:"product_code,omitempty"`
	SQUCode     string `json:"squ_code,omitempty"`
	CategoryID  string `json:"category_id" validate:"required"`
	Unit        Unit   `json:"unit" validate:"required"`
	Description string `json:"description,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// UpdateProductRequest carries a partial product update. Codes are never
// regenerated once the record exists.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
	Unit        *Unit   `json:"unit,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// CodePreview is the response of the code-generation preview operation.
type CodePreview struct {
	Code    string `json:"code"`
	SQUCode string `json:"squ_code,omitempty"`
}

package dto

import "time"

// CategoryRequest alta de categoría.
type CategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Code     string `json:"code" validate:"max=50"`
	ParentID string `json:"parent_id" validate:"omitempty,uuid"`
}

// UpdateCategoryRequest modificación de categoría.
type UpdateCategoryRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Code     *string `json:"code" validate:"omitempty,max=50"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
	ModFlag  int     `json:"mod_flag" validate:"min=0"`
}

// CategoryResponse salida de categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	ModFlag   int       `json:"mod_flag"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BrandRequest alta o modificación de marca (mod_flag se ignora al crear).
type BrandRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	ModFlag int    `json:"mod_flag" validate:"min=0"`
}

// BrandResponse salida de marca.
type BrandResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ModFlag   int       `json:"mod_flag"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnitRequest alta o modificación de unidad de medida.
type UnitRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=50"`
	Abbreviation string `json:"abbreviation" validate:"required,min=1,max=10"`
	ModFlag      int    `json:"mod_flag" validate:"min=0"`
}

// UnitResponse salida de unidad de medida.
type UnitResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	ModFlag      int       `json:"mod_flag"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListFilters narrows the catalog listing query.
type ListFilters struct {
	JewelerID  *uuid.UUID
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Material   *string
	Search     *string
	InStock    bool
}

// CreateProductInput carries the fields accepted when listing a product.
type CreateProductInput struct {
	JewelerID     uuid.UUID       `json:"jeweler_id" validate:"required"`
	Name          string          `json:"name" validate:"required,max=200"`
	Material      *string         `json:"material,omitempty" validate:"omitempty,max=100"`
	Karat         *string         `json:"karat,omitempty" validate:"omitempty,max=20"`
	Weight        *float64        `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	Description   *string         `json:"description,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	ImagePath     *string         `json:"image_path,omitempty"`
	CategoryIDs   []uuid.UUID     `json:"category_ids,omitempty"`
}

// UpdateProductInput carries partial catalog updates.
type UpdateProductInput struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Material      *string          `json:"material,omitempty" validate:"omitempty,max=100"`
	Karat         *string          `json:"karat,omitempty" validate:"omitempty,max=20"`
	Weight        *float64         `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	Description   *string          `json:"description,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	ImagePath     *string          `json:"image_path,omitempty"`
	CategoryIDs   []uuid.UUID      `json:"category_ids,omitempty"`
}

// CreateCategoryInput names a new catalog grouping.
type CreateCategoryInput struct {
	Name     string     `json:"name" validate:"required,max=100"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Type        string          `json:"type" db:"type"`
	Icon        string          `json:"icon" db:"icon"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	IsFeatured  bool            `json:"isFeatured" db:"is_featured"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

const (
	ProductTypeVegetable = "VEGETABLE"
	ProductTypeFruit     = "FRUIT"
	ProductTypeMeat      = "MEAT"
)

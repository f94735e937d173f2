package catalog

import (
	"time"

	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Product groups plans under one sellable offering
type Product struct {
	shared.BaseEntity
	Name        string `gorm:"size:255;not null"`
	Slug        string `gorm:"size:100;not null;uniqueIndex"`
	Description string
	IsActive    bool   `gorm:"not null;default:true"`
	Plans       []Plan `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for the product model
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, slug string) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Product slug cannot be empty")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       slug,
		IsActive:   true,
	}, nil
}

// OneTimeProductPrice is the price of a one-time product in one currency
type OneTimeProductPrice struct {
	ID               uuid.UUID            `gorm:"type:uuid;primaryKey"`
	OneTimeProductID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Currency         valueobject.Currency `gorm:"size:3;not null"`
	Price            int64                `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for the one-time product price model
func (OneTimeProductPrice) TableName() string {
	return "one_time_product_prices"
}

// Money returns the price as a Money value
func (p *OneTimeProductPrice) Money() valueobject.Money {
	return valueobject.MustNewMoney(p.Price, p.Currency)
}

// OneTimeProduct is a product purchased through a one-off order
// rather than a recurring subscription
type OneTimeProduct struct {
	shared.BaseEntity
	Name        string `gorm:"size:255;not null"`
	Slug        string `gorm:"size:100;not null;uniqueIndex"`
	Description string
	IsActive    bool                  `gorm:"not null;default:true"`
	MaxQuantity int                   `gorm:"not null;default:0"`
	Prices      []OneTimeProductPrice `gorm:"foreignKey:OneTimeProductID"`
}

// TableName returns the table name for the one-time product model
func (OneTimeProduct) TableName() string {
	return "one_time_products"
}

// NewOneTimeProduct creates a new one-time product
func NewOneTimeProduct(name, slug string) (*OneTimeProduct, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Product slug cannot be empty")
	}
	return &OneTimeProduct{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       slug,
		IsActive:   true,
	}, nil
}

// PriceFor returns the price row for the given currency
func (p *OneTimeProduct) PriceFor(currency valueobject.Currency) (*OneTimeProductPrice, error) {
	for i := range p.Prices {
		if p.Prices[i].Currency == currency {
			return &p.Prices[i], nil
		}
	}
	return nil, shared.ErrPriceNotFound
}

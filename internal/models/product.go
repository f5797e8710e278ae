package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
type Product struct {
	ID          int             `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Description string          `json:"description" gorm:"type:text;not null" validate:"required"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric;not null"`
	CreatedDate time.Time       `json:"created_date" gorm:"not null"`
}

// NewProduct builds a Product stamped with the current UTC time.
// The timestamp is truncated to microseconds, the precision postgres keeps.
func NewProduct(name, description string, price decimal.Decimal) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		CreatedDate: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "products"
}

package repositories

import (
	"context"
	"errors"

	"solidapi/internal/models"
)

var (
	// ErrInvalidArgument is returned before any storage call when a required input is missing.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned by GetProductByID when no row has the requested id.
	ErrNotFound = errors.New("product not found")
	// ErrUnsupported is returned by implementations that cannot execute raw SQL.
	ErrUnsupported = errors.New("operation not supported")
)

// Row is a loosely typed result row keyed by column name. Values carry the
// driver's native kinds: int64, float64, string, []byte, bool, time.Time or nil.
type Row = map[string]any

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (bool, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int) (bool, error)
	ProductExists(ctx context.Context, id int) (bool, error)
	ExecuteSQLQuery(ctx context.Context, query string, params ...any) ([]models.Product, error)
	ExecuteStoredProcedure(ctx context.Context, procedureName string, params ...any) ([]Row, error)
}

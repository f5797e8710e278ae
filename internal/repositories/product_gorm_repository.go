package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"solidapi/internal/database"
	"solidapi/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	store *database.Database
	log   zerolog.Logger
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(store *database.Database, log zerolog.Logger) *GORMProductRepository {
	return &GORMProductRepository{
		store: store,
		log:   log.With().Str("repository", "products").Logger(),
	}
}

// GetProducts retrieves all products from the database.
func (r *GORMProductRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.store.Products(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID. ErrNotFound is
// returned when there is no such row.
func (r *GORMProductRepository) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := r.store.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// CreateProduct inserts product and fills in its storage-assigned ID.
// It reports whether a row was written.
func (r *GORMProductRepository) CreateProduct(ctx context.Context, product *models.Product) (bool, error) {
	if product == nil {
		return false, fmt.Errorf("%w: product is nil", ErrInvalidArgument)
	}
	if product.CreatedDate.IsZero() {
		product.CreatedDate = time.Now().UTC().Truncate(time.Microsecond)
	}

	res := r.store.DB(ctx).Create(product)
	if res.Error != nil {
		return false, fmt.Errorf("failed to create product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UpdateProduct replaces every column of the row identified by product.ID.
// No existence check is made: an unknown ID updates nothing and is not an error.
func (r *GORMProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidArgument)
	}

	// Select("*") writes zero values too, so this is a full replace rather than a patch.
	res := r.store.Products(ctx).
		Where("id = ?", product.ID).
		Select("*").
		Omit("id").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Debug().Int("product_id", product.ID).Msg("update matched no rows")
	}
	return nil
}

// DeleteProduct removes the product with the given ID. It returns false
// when no such product exists.
func (r *GORMProductRepository) DeleteProduct(ctx context.Context, id int) (bool, error) {
	product, err := r.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	res := r.store.DB(ctx).Delete(product)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ProductExists reports whether a product with the given ID is stored.
func (r *GORMProductRepository) ProductExists(ctx context.Context, id int) (bool, error) {
	var count int64
	if err := r.store.Products(ctx).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product %d: %w", id, err)
	}
	return count > 0, nil
}

// ExecuteSQLQuery runs a raw query whose columns map onto Product.
// Parameters are positional: `{0}` binds params[0], `{1}` binds params[1]
// and so on. Queries using `?` placeholders are passed through as is.
func (r *GORMProductRepository) ExecuteSQLQuery(ctx context.Context, query string, params ...any) ([]models.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrInvalidArgument)
	}

	sql, args, err := bindIndexed(query, params)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := r.store.DB(ctx).Raw(sql, args...).Scan(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return products, nil
}

// ExecuteStoredProcedure invokes `EXEC <name> @p0, @p1, ...` with params bound
// by name. The procedure name is spliced into the statement text, so anything
// other than a plain or schema-qualified identifier is rejected.
func (r *GORMProductRepository) ExecuteStoredProcedure(ctx context.Context, procedureName string, params ...any) ([]Row, error) {
	if procedureName == "" {
		return nil, fmt.Errorf("%w: procedure name is empty", ErrInvalidArgument)
	}

	statement, args, err := buildProcedureCall(procedureName, params)
	if err != nil {
		r.log.Warn().Str("procedure", procedureName).Msg("rejected stored procedure name")
		return nil, err
	}

	var rows []Row
	if err := r.store.DB(ctx).Raw(statement, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to execute stored procedure %s: %w", procedureName, err)
	}
	return rows, nil
}

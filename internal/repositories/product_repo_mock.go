package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"solidapi/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Raw SQL operations are not available and return ErrUnsupported.
type MockProductRepository struct {
	products map[int]models.Product
	nextID   int
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[int]models.Product),
		nextID:   1,
	}
}

// GetProducts returns all products ordered by ID.
func (r *MockProductRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// GetProductByID returns a copy of the product with the given ID.
func (r *MockProductRepository) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

// CreateProduct adds a new product, assigning the next free ID when none is set.
func (r *MockProductRepository) CreateProduct(ctx context.Context, product *models.Product) (bool, error) {
	if product == nil {
		return false, fmt.Errorf("%w: product is nil", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
	}
	if _, ok := r.products[product.ID]; ok {
		return false, fmt.Errorf("product with ID %d already exists", product.ID)
	}
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return true, nil
}

// UpdateProduct replaces an existing product; unknown IDs are ignored.
func (r *MockProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok {
		r.products[product.ID] = *product
	}
	return nil
}

// DeleteProduct removes a product by its ID.
func (r *MockProductRepository) DeleteProduct(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

// ProductExists reports whether the ID is present.
func (r *MockProductRepository) ProductExists(ctx context.Context, id int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

func (r *MockProductRepository) ExecuteSQLQuery(ctx context.Context, query string, params ...any) ([]models.Product, error) {
	return nil, ErrUnsupported
}

func (r *MockProductRepository) ExecuteStoredProcedure(ctx context.Context, procedureName string, params ...any) ([]Row, error) {
	return nil, ErrUnsupported
}

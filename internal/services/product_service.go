package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"solidapi/internal/models"
	"solidapi/internal/repositories"
)

// ValidationError lists the product fields that failed validation.
// It matches repositories.ErrInvalidArgument under errors.Is.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid product: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return repositories.ErrInvalidArgument
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil,
// in which case no events are emitted.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, log zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
		log:       log.With().Str("service", "products").Logger(),
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetProducts(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

// CreateProduct validates and stores a new product, then announces it.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.check(product); err != nil {
		return err
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("product %q was not stored", product.Name)
	}

	s.publish(ctx, EventProductCreated, product.ID)
	return nil
}

// UpdateProduct replaces an existing product. Unlike the repository it
// refuses unknown IDs, returning repositories.ErrNotFound.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.check(product); err != nil {
		return err
	}

	exists, err := s.repo.ProductExists(ctx, product.ID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("product with ID %d not found for update: %w", product.ID, repositories.ErrNotFound)
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return err
	}

	s.publish(ctx, EventProductUpdated, product.ID)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	deleted, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("product with ID %d not found for deletion: %w", id, repositories.ErrNotFound)
	}

	s.publish(ctx, EventProductDeleted, id)
	return nil
}

// SearchProducts runs a raw query through the repository.
func (s *ProductService) SearchProducts(ctx context.Context, query string, params ...any) ([]models.Product, error) {
	return s.repo.ExecuteSQLQuery(ctx, query, params...)
}

// RunProcedure executes a stored procedure through the repository.
func (s *ProductService) RunProcedure(ctx context.Context, name string, params ...any) ([]repositories.Row, error) {
	return s.repo.ExecuteStoredProcedure(ctx, name, params...)
}

func (s *ProductService) check(product *models.Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", repositories.ErrInvalidArgument)
	}

	err := s.validate.Struct(product)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Fields = append(verr.Fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return verr
}

// publish emits an event; failures are logged and never fail the write that triggered them.
func (s *ProductService) publish(ctx context.Context, eventType string, productID int) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(newProductEvent(eventType, productID))
	if err != nil {
		s.log.Error().Err(err).Str("type", eventType).Msg("failed to marshal product event")
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Str("type", eventType).Int("product_id", productID).Msg("failed to publish product event")
		return
	}
	s.log.Debug().Str("type", eventType).Int("product_id", productID).Msg("published product event")
}

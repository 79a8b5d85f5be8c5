package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/linemk/storefront/internal/storage"
)

var ErrInvalidPrice = errors.New("price must be a positive integer")

// CatalogService exposes the catalog reads the shop and cart need, plus the
// admin append operation. Products are never mutated or deleted.
type CatalogService interface {
	ListProducts(ctx context.Context, category string) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	AddProduct(ctx context.Context, name, category string, price int, image string) (int64, error)
}

type catalogService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage) CatalogService {
	return &catalogService{
		log:         log,
		productRepo: productRepo,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, category string) ([]*models.Product, error) {
	const op = "service.CatalogService.ListProducts"
	products, err := s.productRepo.ListProducts(ctx, category)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrProductNotFound) {
			s.log.Error("failed to get product", slog.String("op", op), slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

// AddProduct appends a catalog row. Duplicate names are permitted; only the
// price is validated here.
func (s *catalogService) AddProduct(ctx context.Context, name, category string, price int, image string) (int64, error) {
	const op = "service.CatalogService.AddProduct"
	logger := s.log.With(slog.String("op", op), slog.String("name", name))

	if price < 1 {
		logger.Warn("rejected product with non-positive price", slog.Int("price", price))
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidPrice)
	}

	id, err := s.productRepo.CreateProduct(ctx, &models.Product{
		Name:     name,
		Category: category,
		Price:    price,
		Image:    image,
	})
	if err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product added", slog.Int64("productID", id))
	return id, nil
}

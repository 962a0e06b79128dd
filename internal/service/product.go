package service

import (
	"context"
	"errors"
	"strings"

	"food-ordering-api/internal/apperr"
	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/repository"

	"gorm.io/gorm"
)

type ProductService interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
	GetProduct(ctx context.Context, productID uint) (*model.Product, error)
	CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID uint, req *dto.ProductRequest) (*model.Product, error)
	DeactivateProduct(ctx context.Context, productID uint) error
}

type productServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productServiceImpl{productRepo: productRepo}
}

func (s *productServiceImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.ListActive(ctx)
}

func (s *productServiceImpl) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, nil, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrProductNotFound
		}
		return nil, err
	}

	return product, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Price:       req.Price,
		Active:      true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, productID uint, req *dto.ProductRequest) (*model.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, nil, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrProductNotFound
		}
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Type = req.Type
	product.Price = req.Price
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeactivateProduct is the soft delete: the product drops out of the
// catalog, cart listings and reorders, but existing rows keep pointing at it.
func (s *productServiceImpl) DeactivateProduct(ctx context.Context, productID uint) error {
	affected, err := s.productRepo.SetActive(ctx, productID, false)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrProductNotFound
	}

	return nil
}

func validateProductRequest(req *dto.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.New(apperr.KindValidation, "product name is required")
	}
	if req.Price.IsNegative() {
		return apperr.New(apperr.KindValidation, "product price cannot be negative")
	}
	return nil
}

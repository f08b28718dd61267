package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/Zmley/warehouse-admin-sub001/upload"
	"gorm.io/gorm"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) Create(ctx context.Context, product *models.Product) error {
	product.ProductCode = strings.TrimSpace(product.ProductCode)
	if product.ProductCode == "" {
		return apperror.Validation("productCode is required")
	}
	repo := repositories.NewProductRepository(s.db)
	if _, err := repo.GetByCode(ctx, product.ProductCode); err == nil {
		return apperror.Conflict("Product %s already exists", product.ProductCode)
	}
	err := repo.Create(ctx, product)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("Product %s already exists", product.ProductCode)
	}
	return err
}

func (s *ProductService) List(ctx context.Context, keyword string) ([]models.Product, error) {
	products, err := repositories.NewProductRepository(s.db).GetAll(ctx, keyword)
	if products == nil {
		products = []models.Product{}
	}
	return products, err
}

func (s *ProductService) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	product, err := repositories.NewProductRepository(s.db).GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, apperror.FromGorm(err, "Product")
	}
	return product, nil
}

// Update changes the descriptive fields; the product code is fixed.
func (s *ProductService) Update(ctx context.Context, productID types.SnowflakeID, changes models.Product) (*models.Product, error) {
	repo := repositories.NewProductRepository(s.db)
	product, err := repo.GetByID(ctx, productID)
	if err != nil {
		return nil, apperror.FromGorm(err, "Product")
	}
	product.Barcode = changes.Barcode
	product.BoxType = changes.BoxType
	product.Description = changes.Description
	if err := repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, productID types.SnowflakeID) error {
	deleted, err := repositories.NewProductRepository(s.db).Delete(ctx, productID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("Product not found")
	}
	return nil
}

// Import creates or updates one product per row in a single transaction.
func (s *ProductService) Import(ctx context.Context, rows []upload.ProductRow) (*ImportResult, error) {
	result := &ImportResult{Rows: len(rows)}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewProductRepository(tx)
		for _, row := range rows {
			created, err := repo.Upsert(ctx, &models.Product{
				ProductCode: row.ProductCode,
				Barcode:     row.Barcode,
				BoxType:     row.BoxType,
				Description: row.Description,
			})
			if err != nil {
				return err
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

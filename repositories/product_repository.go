package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) GetByID(ctx context.Context, id types.SnowflakeID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "product_id = ?", id).Error
	return &product, err
}

func (r *ProductRepository) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("product_code = ?", code).First(&product).Error
	return &product, err
}

// GetAll returns products whose code, barcode or description contains keyword.
func (r *ProductRepository) GetAll(ctx context.Context, keyword string) ([]models.Product, error) {
	var products []models.Product
	q := r.db.WithContext(ctx).Order("product_code")
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("product_code LIKE ? OR barcode LIKE ? OR description LIKE ?", like, like, like)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id types.SnowflakeID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "product_id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// Upsert creates the product or overwrites the descriptive fields of the
// product with the same code. It reports whether a new row was created.
func (r *ProductRepository) Upsert(ctx context.Context, product *models.Product) (bool, error) {
	existing, err := r.GetByCode(ctx, product.ProductCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, r.Create(ctx, product)
	}
	if err != nil {
		return false, err
	}
	existing.Barcode = product.Barcode
	existing.BoxType = product.BoxType
	existing.Description = product.Description
	*product = *existing
	return false, r.Update(ctx, product)
}

package repositories

import (
	"context"

	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// Get account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id types.SnowflakeID) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Preload("Warehouse").First(&account, "account_id = ?", id).Error
	return &account, err
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	return &account, err
}

// Get all accounts, optionally only those of one warehouse
func (r *AccountRepository) GetAll(ctx context.Context, warehouseID *types.SnowflakeID) ([]models.Account, error) {
	var accounts []models.Account
	q := r.db.WithContext(ctx).Preload("Warehouse").Order("email")
	if warehouseID != nil {
		q = q.Where("warehouse_id = ?", *warehouseID)
	}
	err := q.Find(&accounts).Error
	return accounts, err
}

// AdminEmails lists the e-mail addresses of a warehouse's admins.
func (r *AccountRepository) AdminEmails(ctx context.Context, warehouseID types.SnowflakeID) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("warehouse_id = ? AND role = ?", warehouseID, models.RoleAdmin).
		Order("email").
		Pluck("email", &emails).Error
	return emails, err
}

// Update account
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Omit("Warehouse").Save(account).Error
}

// Lock takes the account's row lock for the rest of the transaction.
func (r *AccountRepository) Lock(ctx context.Context, id types.SnowflakeID) error {
	res := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("account_id = ?", id).
		UpdateColumn("lock_version", gorm.Expr("lock_version + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete account
func (r *AccountRepository) Delete(ctx context.Context, id types.SnowflakeID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Account{}, "account_id = ?", id)
	return res.RowsAffected > 0, res.Error
}

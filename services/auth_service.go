package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/auth"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/repositories"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"gorm.io/gorm"
)

type AuthService struct {
	db     *gorm.DB
	issuer *auth.TokenIssuer
}

func NewAuthService(db *gorm.DB, issuer *auth.TokenIssuer) *AuthService {
	return &AuthService{db: db, issuer: issuer}
}

// Login checks the credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Account, error) {
	account, err := repositories.NewAccountRepository(s.db).GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, apperror.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return "", nil, err
	}
	if !auth.CheckPassword(account.Password, password) {
		return "", nil, apperror.Unauthorized("Invalid email or password")
	}

	token, err := s.issuer.Issue(account)
	if err != nil {
		return "", nil, apperror.Internal(err, "failed to issue token")
	}
	return token, account, nil
}

func (s *AuthService) Me(ctx context.Context, accountID types.SnowflakeID) (*models.Account, error) {
	account, err := repositories.NewAccountRepository(s.db).GetByID(ctx, accountID)
	if err != nil {
		return nil, apperror.FromGorm(err, "Account")
	}
	return account, nil
}

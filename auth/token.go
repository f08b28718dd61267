package auth

import (
	"errors"
	"time"

	"github.com/Zmley/warehouse-admin-sub001/apperror"
	"github.com/Zmley/warehouse-admin-sub001/models"
	"github.com/Zmley/warehouse-admin-sub001/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	AccountID   types.SnowflakeID  `json:"accountID"`
	Role        models.Role        `json:"role"`
	WarehouseID *types.SnowflakeID `json:"warehouseID,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

func (t *TokenIssuer) Issue(account *models.Account) (string, error) {
	now := t.now()
	claims := Claims{
		AccountID:   account.AccountID,
		Role:        account.Role,
		WarehouseID: account.WarehouseID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.AccountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies the token and returns the caller it was issued to.
func (t *TokenIssuer) Parse(tokenString string) (Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, apperror.Unauthorized("Unauthorized: token expired")
		}
		return Principal{}, apperror.Unauthorized("Unauthorized: invalid token")
	}
	if claims.AccountID.IsZero() || !claims.Role.Valid() {
		return Principal{}, apperror.Unauthorized("Unauthorized: invalid token claims")
	}

	return Principal{
		AccountID:   claims.AccountID,
		Role:        claims.Role,
		WarehouseID: claims.WarehouseID,
	}, nil
}

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"harvesterbilling/apperrors"
	"harvesterbilling/models"
)

var ErrExpiredToken = errors.New("token has expired")

// Claims identify the account namespace a request operates on.
type Claims struct {
	AccountID string `json:"account_id"`
	LoginID   string `json:"login_id"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the user.
func (i *Issuer) Issue(user *models.AppUser) (string, error) {
	now := i.now()
	claims := &Claims{
		AccountID: user.ID,
		LoginID:   user.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse validates the token and returns its claims. Every failure wraps
// apperrors.ErrUnauthorized.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrUnauthorized
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(apperrors.ErrUnauthorized, ErrExpiredToken)
		}
		return nil, apperrors.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AccountID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

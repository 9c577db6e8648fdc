package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/config"
	pkgerrors "github.com/BhavikPatel-dreamz/b2b-portal-backend/pkg/errors"
)

// Roles carried by portal access tokens.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Claims is the portal access token payload. ShopID scopes every request to
// one storefront.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	ShopID string    `json:"shop"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// SignAccessToken issues a signed access token for the given identity.
func SignAccessToken(cfg config.JWTConfig, userID uuid.UUID, shopID, role string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID,
		ShopID: shopID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiration())),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign access token")
	}
	return signed, nil
}

// ParseAccessToken validates a signed token and returns its claims.
func ParseAccessToken(cfg config.JWTConfig, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unexpected signing method")
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "parse access token")
	}
	if !token.Valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if claims.UserID == uuid.Nil || claims.ShopID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token missing identity")
	}
	return claims, nil
}

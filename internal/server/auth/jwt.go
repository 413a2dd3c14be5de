// Package auth covers owner session tokens (HS256 JWTs) and password
// hashing.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mydiary/internal/common"
)

// Claims carries the standard registered claims plus the owner id.
type Claims struct {
	jwt.RegisteredClaims
	OwnerID string
}

// GenerateToken mints an HS256 session token for the given owner.
func GenerateToken(ownerID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		OwnerID: ownerID,
	})

	return token.SignedString(secretKey)
}

// GetOwnerIDFromToken validates the token signature and expiry and returns
// the owner id it was minted for.
func GetOwnerIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.OwnerID, nil
}

// Package auth mints and parses the HS256 JSON Web Tokens used for access
// and refresh credentials.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims are carried by the short-lived access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
}

// RefreshClaims are carried by the refresh token. The registered ID (jti)
// is random so two tokens minted in the same second still differ.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"_id"`
}

// Identity is what a verified access token says about its bearer.
type Identity struct {
	UserID   string
	Email    string
	Username string
	FullName string
}

func GenerateAccessToken(id Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:   id.UserID,
		Email:    id.Email,
		Username: id.Username,
		FullName: id.FullName,
	})

	return token.SignedString(secretKey)
}

func GenerateRefreshToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// ParseAccessToken validates signature and expiry and returns the identity.
// Expired tokens yield common.ErrTokenExpired, everything else that fails
// verification wraps common.ErrInvalidToken.
func ParseAccessToken(tokenString string, secretKey []byte) (Identity, error) {
	claims := &AccessClaims{}
	if err := parse(tokenString, claims, secretKey); err != nil {
		return Identity{}, err
	}

	return Identity{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
		FullName: claims.FullName,
	}, nil
}

// ParseRefreshToken validates a refresh token and returns the user id in it.
func ParseRefreshToken(tokenString string, secretKey []byte) (string, error) {
	claims := &RefreshClaims{}
	if err := parse(tokenString, claims, secretKey); err != nil {
		return "", err
	}

	return claims.UserID, nil
}

func parse(tokenString string, claims jwt.Claims, secretKey []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return common.ErrInvalidToken
	}

	return nil
}

// Package auth resolves the current user from the platform-issued access
// token. The sync engine only needs "who is the current user"; issuing and
// refreshing tokens stays with the hosted platform.
package auth

import (
	"errors"

	"github.com/adventurelog/uploadsync/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDFromToken verifies an HS256 access token and returns its subject
// (the platform user id). Expired tokens map to common.ErrTokenExpired,
// anything else invalid to common.ErrInvalidToken.
func UserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}

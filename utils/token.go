package authUtils

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Session tokens expire after 7 days
const tokenTTL = 7 * 24 * time.Hour

// TokenManager signs and parses session tokens with a secret fixed at
// construction.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Generate creates a signed JWT for a given user ID and role
func (t *TokenManager) Generate(userID, role string) (string, error) {
	if len(t.secret) == 0 {
		return "", fmt.Errorf("token signing secret is not configured")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})

	return token.SignedString(t.secret)
}

// Parse validates a token string and returns the user ID and role claims
func (t *TokenManager) Parse(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("token missing user_id claim")
	}

	role, _ := claims["role"].(string)
	return userID, role, nil
}

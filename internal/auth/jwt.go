package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stockroom-io/stockroom/internal/models"
)

var (
	jwtSecret = []byte("dev-secret-change-me")
	tokenTTL  = 15 * time.Minute
)

// Configure sets the signing secret and access-token lifetime. Called once at
// startup with values from config.
func Configure(secret string, ttl time.Duration) {
	jwtSecret = []byte(secret)
	if ttl > 0 {
		tokenTTL = ttl
	}
}

func GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseToken(tokenStr string) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
}

// TokenClaims parses a "Bearer ..." Authorization header and returns the
// token with its claims.
func TokenClaims(authorization string) (*jwt.Token, jwt.MapClaims, error) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return nil, nil, errors.New("missing or invalid token")
	}

	token, err := ParseToken(strings.TrimPrefix(authorization, "Bearer "))
	if err != nil || !token.Valid {
		return nil, nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil, errors.New("invalid token claims")
	}
	return token, claims, nil
}

package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenService is responsible for creating and validating JWTs.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
}

// NewTokenService creates a new TokenService with the given signing secret.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if secret == "" {
		panic("JWT secret not set")
	}
	return &TokenService{secretKey: []byte(secret), ttl: ttl}
}

// TTL returns the lifetime used for issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// GenerateToken creates a signed access token for the user.
func (s *TokenService) GenerateToken(userID, email, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(s.ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken parses and validates a token string.
func (s *TokenService) ValidateToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

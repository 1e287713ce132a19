package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ModeratorToken is a short-lived signed token linking a moderator to a
// dispute review, embedded in the dashboard link the bot posts alongside a
// report.
type ModeratorToken struct {
	UserID    int64
	ReportID  string
	TokenID   string
	ExpiresAt time.Time
}

// TokenSigner issues and validates the signed moderator links.
type TokenSigner struct {
	secretKey []byte
}

// NewTokenSigner creates a new token signer service
func NewTokenSigner(secretKey []byte) *TokenSigner {
	return &TokenSigner{secretKey: secretKey}
}

// Sign generates a single-use moderator token for a dispute report.
func (s *TokenSigner) Sign(userID int64, reportID string, ttl time.Duration) (string, error) {
	tokenID := uuid.New().String()

	claims := jwt.MapClaims{
		"user_id":   userID,
		"report_id": reportID,
		"jti":       tokenID,
		"exp":       time.Now().Add(ttl).Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses a moderator token and returns its claims.
func (s *TokenSigner) Validate(tokenString string) (*ModeratorToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userIDFloat, ok := (*claims)["user_id"].(float64)
	if !ok {
		return nil, errors.New("missing or invalid user_id claim")
	}

	reportID, ok := (*claims)["report_id"].(string)
	if !ok {
		return nil, errors.New("missing or invalid report_id claim")
	}

	tokenID, ok := (*claims)["jti"].(string)
	if !ok {
		return nil, errors.New("missing or invalid jti claim")
	}

	expFloat, ok := (*claims)["exp"].(float64)
	if !ok {
		return nil, errors.New("missing or invalid exp claim")
	}

	return &ModeratorToken{
		UserID:    int64(userIDFloat),
		ReportID:  reportID,
		TokenID:   tokenID,
		ExpiresAt: time.Unix(int64(expFloat), 0),
	}, nil
}

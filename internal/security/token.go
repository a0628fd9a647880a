package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes access tokens from refresh tokens. The two kinds
// are signed with distinct secrets and carry an explicit kind claim, so a
// refresh token can never be replayed as an access token.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type Claims struct {
	UserID string    `json:"uid"`
	Role   string    `json:"role,omitempty"`
	Kind   TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a short-lived token embedding identity and role.
func IssueAccessToken(secret string, userID string, role string, ttl time.Duration) (string, error) {
	return issue(secret, userID, role, TokenKindAccess, ttl)
}

// IssueRefreshToken signs a long-lived token embedding identity only. The
// role is re-read from the credential store on refresh so role changes take
// effect without waiting out the refresh window.
func IssueRefreshToken(secret string, userID string, ttl time.Duration) (string, error) {
	return issue(secret, userID, "", TokenKindRefresh, ttl)
}

func issue(secret string, userID string, role string, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// VerifyToken parses tokenStr and checks signature, expiry and kind. A token
// of the wrong kind fails even if its signature happens to validate.
func VerifyToken(tokenStr string, secret string, expected TokenKind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Kind != expected {
		return nil, fmt.Errorf("token kind mismatch: got %q", claims.Kind)
	}
	return claims, nil
}

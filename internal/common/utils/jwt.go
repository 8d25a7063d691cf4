package utils

import (
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// JWTClaims are the claims this service issues and accepts.
type JWTClaims struct {
    UserID   int64  `json:"user_id"`
    Email    string `json:"email"`
    Username string `json:"username"`
    Type     string `json:"type"` // "access" or "refresh"
    jwt.RegisteredClaims
}

// GenerateJWT signs a token with HMAC-SHA256.
func GenerateJWT(userID int64, email, username, tokenType, secret string, ttl time.Duration) (string, error) {
    now := time.Now()
    claims := &JWTClaims{
        UserID:   userID,
        Email:    email,
        Username: username,
        Type:     tokenType,
        RegisteredClaims: jwt.RegisteredClaims{
            ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
            IssuedAt:  jwt.NewNumericDate(now),
            NotBefore: jwt.NewNumericDate(now),
            Issuer:    "shy-engine",
            Subject:   fmt.Sprintf("%d", userID),
        },
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := token.SignedString([]byte(secret))
    if err != nil {
        return "", fmt.Errorf("failed to sign token: %w", err)
    }
    return signed, nil
}

// ValidateJWT parses and verifies a token, rejecting any signing method
// other than HMAC.
func ValidateJWT(tokenString, secret string) (*JWTClaims, error) {
    claims := &JWTClaims{}
    token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
        }
        return []byte(secret), nil
    })
    if err != nil || !token.Valid {
        return nil, ErrInvalidToken
    }
    return claims, nil
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rmarques/go-rest-starter/internal/api"
)

var _ TokenIssuer = (*JWTIssuer)(nil)

// Claims is the signed token payload: subject (user ID), email and role on
// top of the registered claims.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies compact stateless identity assertions.
type TokenIssuer interface {
	// Sign produces a token for the given subject, embedding the expiry.
	Sign(subject, email, role string) (string, error)

	// Verify parses and validates a token. Expired, malformed and
	// badly-signed tokens all surface as api.ErrUnauthenticated.
	Verify(tokenString string) (*Claims, error)
}

// JWTIssuer issues HS256-signed JWTs with a fixed validity window.
type JWTIssuer struct {
	secret []byte
	expiry time.Duration
}

func NewJWTIssuer(secret string, expiry time.Duration) *JWTIssuer {
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &JWTIssuer{
		secret: []byte(secret),
		expiry: expiry,
	}
}

func (i *JWTIssuer) Sign(subject, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (i *JWTIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		// Expired, malformed and bad-signature tokens are deliberately
		// indistinguishable to callers.
		return nil, fmt.Errorf("invalid token: %w", api.ErrUnauthenticated)
	}
	return claims, nil
}

package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// AccessTokenTTL is the validity window of every participant access token.
const AccessTokenTTL = 3600 * time.Second

var (
	// ErrTokenExpired is returned by ParseToken for tokens past their exp claim.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenNotYetValid is returned by ParseToken for tokens before their nbf claim.
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// ErrTokenInvalid covers malformed tokens, bad signatures and unexpected algorithms.
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenParams describes one access token to sign.
type TokenParams struct {
	APIKey    string
	APISecret string
	Identity  string
	Grant     VideoGrant
	IssuedAt  time.Time
	TTL       time.Duration
}

// GenerateToken signs an HS256 access token. The output is deterministic for equal params.
func GenerateToken(p TokenParams) (string, error) {
	if p.APIKey == "" || p.APISecret == "" {
		return "", errors.New("api key and secret are required")
	}

	ttl := p.TTL
	if ttl <= 0 {
		ttl = AccessTokenTTL
	}

	grant := p.Grant
	payload := &Payload{
		StandardClaims: jwt.StandardClaims{
			Issuer:    p.APIKey,
			Subject:   p.Identity,
			Id:        p.Identity,
			IssuedAt:  p.IssuedAt.Unix(),
			NotBefore: p.IssuedAt.Unix(),
			ExpiresAt: p.IssuedAt.Add(ttl).Unix(),
		},
		Name:  p.Identity,
		Video: &grant,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	return token.SignedString([]byte(p.APISecret))
}

// ParseToken verifies the signature with secret and checks the time claims against now.
// A token is still valid at exactly its exp second and expired one second later.
func ParseToken(tokenString string, secret string, now time.Time) (*Payload, error) {
	claims := &Payload{}

	parser := &jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}

	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	ts := now.Unix()
	if !claims.VerifyExpiresAt(ts, true) {
		return nil, ErrTokenExpired
	}
	if !claims.VerifyNotBefore(ts, false) {
		return nil, ErrTokenNotYetValid
	}

	return claims, nil
}

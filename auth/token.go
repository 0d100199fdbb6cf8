package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minSigningKeyLen = 32

// TokenService signs and verifies HS256 bearer tokens whose subject is the
// account email. It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	now        func() time.Time
}

type TokenOption func(*TokenService)

// WithIssuer sets the iss claim written on issuance and required on parse.
func WithIssuer(issuer string) TokenOption {
	return func(ts *TokenService) {
		ts.issuer = issuer
	}
}

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

func NewTokenService(signingKey []byte, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(signingKey) < minSigningKeyLen {
		return nil, ErrWeakSigningKey
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	key := make([]byte, len(signingKey))
	copy(key, signingKey)

	ts := &TokenService{signingKey: key, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(ts)
	}
	return ts, nil
}

// TTL returns the lifetime given to every issued token.
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Generate issues a token for subject expiring TTL from now.
func (ts *TokenService) Generate(subject string) (string, error) {
	if subject == "" {
		return "", ErrTokenMalformed
	}

	now := ts.now()
	claims := &tokenClaims{
		Issuer:    ts.issuer,
		Subject:   subject,
		IssuedAt:  newTimestamp(now),
		ExpiresAt: newTimestamp(now.Add(ts.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

// Validate reports whether token carries a valid signature, has not expired
// and was issued for expectedSubject. Any failure is false.
func (ts *TokenService) Validate(token, expectedSubject string) bool {
	claims, err := ts.parse(token)
	if err != nil {
		return false
	}
	return expectedSubject != "" && claims.Subject == expectedSubject
}

// ExtractSubject verifies signature and expiry and returns the token subject.
func (ts *TokenService) ExtractSubject(token string) (string, error) {
	claims, err := ts.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (ts *TokenService) parse(token string) (claims *tokenClaims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims, err = nil, ErrTokenMalformed
		}
	}()

	if token == "" {
		return nil, ErrTokenMalformed
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ts.issuer))
	}

	claims = &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return ts.signingKey, nil
	}, opts...)
	if err != nil {
		return nil, tokenError(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	default:
		return ErrTokenMalformed
	}
}

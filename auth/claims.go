package auth

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims are the registered claims carried by a bearer token. Times keep
// nanosecond precision on the wire so a token lives exactly its TTL.
type tokenClaims struct {
	Issuer    string           `json:"iss,omitempty"`
	Subject   string           `json:"sub,omitempty"`
	Audience  jwt.ClaimStrings `json:"aud,omitempty"`
	IssuedAt  *timestamp       `json:"iat,omitempty"`
	NotBefore *timestamp       `json:"nbf,omitempty"`
	ExpiresAt *timestamp       `json:"exp,omitempty"`
}

func (c *tokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return c.ExpiresAt.numericDate(), nil
}

func (c *tokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return c.IssuedAt.numericDate(), nil
}

func (c *tokenClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return c.NotBefore.numericDate(), nil
}

func (c *tokenClaims) GetIssuer() (string, error) {
	return c.Issuer, nil
}

func (c *tokenClaims) GetSubject() (string, error) {
	return c.Subject, nil
}

func (c *tokenClaims) GetAudience() (jwt.ClaimStrings, error) {
	return c.Audience, nil
}

// timestamp is a NumericDate that round-trips without loss. jwt.NumericDate
// truncates to jwt.TimePrecision and decodes through float64, which can move
// a fractional expiry below its issued value.
type timestamp struct {
	time.Time
}

func newTimestamp(t time.Time) *timestamp {
	return &timestamp{t}
}

func (ts *timestamp) numericDate() *jwt.NumericDate {
	if ts == nil {
		return nil
	}
	return &jwt.NumericDate{Time: ts.Time}
}

func (ts timestamp) MarshalJSON() ([]byte, error) {
	sec, nsec := ts.Unix(), ts.Nanosecond()
	out := strconv.FormatInt(sec, 10)
	if nsec != 0 && sec >= 0 {
		out += "." + strings.TrimRight(fmt.Sprintf("%09d", nsec), "0")
	}
	return []byte(out), nil
}

func (ts *timestamp) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("could not parse numeric date: %w", err)
	}

	if t, ok := parseDecimalSeconds(n.String()); ok {
		ts.Time = t
		return nil
	}

	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("could not parse numeric date: %w", err)
	}
	sec, frac := math.Modf(f)
	ts.Time = time.Unix(int64(sec), int64(frac*1e9))
	return nil
}

// parseDecimalSeconds reads "seconds[.fraction]" with up to nine fraction
// digits exactly. Anything else, exponents and signs included, is left to
// float parsing.
func parseDecimalSeconds(s string) (time.Time, bool) {
	whole, frac, _ := strings.Cut(s, ".")
	if !isDigits(whole) || len(frac) > 9 || (frac != "" && !isDigits(frac)) {
		return time.Time{}, false
	}

	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	var nsec int64
	if frac != "" {
		nsec, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return time.Time{}, false
		}
	}
	return time.Unix(sec, nsec), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

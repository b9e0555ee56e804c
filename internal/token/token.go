// Package token issues and parses the signed access tokens carrying the
// compound identity claim, and tracks revoked token ids.
package token

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hfrat/hfrat-backend/internal/models"
)

// Identity is the compound claim embedded in a token's subject.
type Identity struct {
	ID         uint        `json:"id"`
	Role       models.Role `json:"role"`
	FacilityID *uint       `json:"facility_id"`
}

// IsZero reports whether the identity carries no usable claim.
func (i Identity) IsZero() bool {
	return i.ID == 0 && i.Role == "" && i.FacilityID == nil
}

// Issuer signs HS256 access tokens whose subject is the JSON-encoded
// identity. Every token gets a unique jti so it can be revoked at logout.
type Issuer struct {
	Secret []byte
	Expiry time.Duration
}

func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{Secret: []byte(secret), Expiry: expiry}
}

func (iss *Issuer) Issue(ident Identity) (string, error) {
	subject, err := json.Marshal(ident)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(subject),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(iss.Expiry)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(iss.Secret)
}

// ParseIdentity decodes a token subject back into an identity. It tolerates
// the production JSON-object form, a legacy bare numeric id (which yields an
// identity without a role, so every role guard rejects it), and malformed
// input (which yields an empty identity rather than an error).
func ParseIdentity(subject string) Identity {
	var ident Identity
	if err := json.Unmarshal([]byte(subject), &ident); err == nil {
		return ident
	}
	if id, err := strconv.ParseUint(subject, 10, 64); err == nil {
		return Identity{ID: uint(id)}
	}
	return Identity{}
}

// IdentityFromToken extracts the identity from verified token claims. A
// structured subject left in place by tests is accepted alongside the
// serialized-string form.
func IdentityFromToken(t *jwt.Token) Identity {
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}
	}

	switch sub := claims["sub"].(type) {
	case string:
		return ParseIdentity(sub)
	case map[string]any:
		b, err := json.Marshal(sub)
		if err != nil {
			return Identity{}
		}
		var ident Identity
		if err := json.Unmarshal(b, &ident); err != nil {
			return Identity{}
		}
		return ident
	}
	return Identity{}
}

// JTI returns the unique token id, or "" when absent.
func JTI(t *jwt.Token) string {
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	jti, _ := claims["jti"].(string)
	return jti
}

// RemainingLifetime returns the time until the token's natural expiry, used
// as the revocation TTL. Zero when the claim is absent or already past.
func RemainingLifetime(t *jwt.Token) time.Duration {
	exp, err := t.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	remaining := time.Until(exp.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

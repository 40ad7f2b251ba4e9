package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/domain"
)

// Validator signs and validates the HMAC bearer tokens carrying a principal.
type Validator struct {
	signingKey []byte
}

func NewValidator(signingKey string) *Validator {
	return &Validator{signingKey: []byte(signingKey)}
}

type claims struct {
	Role       string `json:"role"`
	CivilianID string `json:"civilian_id,omitempty"`
	jwt.RegisteredClaims
}

// ValidateToken parses and verifies a bearer token into a Principal.
func (v *Validator) ValidateToken(tokenString string) (domain.Principal, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return v.signingKey, nil
	})
	if err != nil || !tok.Valid {
		return domain.Principal{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "token carries unsupported role")
	}
	p := domain.Principal{Subject: c.Subject, Role: role}
	if c.CivilianID != "" {
		civID, err := domain.ParseCivilianID(c.CivilianID)
		if err != nil {
			return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "token carries malformed civilian id")
		}
		p.CivilianID = civID
	}
	if p.Subject == "" {
		return domain.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "token missing subject")
	}
	return p, nil
}

// Issue mints a token for a principal. Used by the dev seeding CLI and tests;
// production deployments are expected to front this service with a real IdP.
func (v *Validator) Issue(p domain.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Role: string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	if !p.CivilianID.IsNil() {
		c.CivilianID = p.CivilianID.String()
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(v.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign token")
	}
	return signed, nil
}

package auth

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
)

type claims struct {
	Role     Role   `json:"role"`
	VendorID string `json:"vendor_id,omitempty"`
	jwt.StandardClaims
}

// Issuer signs and verifies HS256 principal tokens.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{key: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(p Principal) (string, error) {
	c := &claims{
		Role: p.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   p.Subject,
			IssuedAt:  i.now().Unix(),
			ExpiresAt: i.now().Add(i.ttl).Unix(),
		},
	}
	if p.VendorID != uuid.Nil {
		c.VendorID = p.VendorID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.key)
}

func (i *Issuer) Parse(token string) (Principal, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.key, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}

	p := Principal{Subject: c.Subject, Role: c.Role}
	switch p.Role {
	case RoleCustomer, RoleAdmin:
	case RoleVendor:
		id, err := uuid.Parse(c.VendorID)
		if err != nil {
			return Principal{}, fmt.Errorf("%w: vendor token without vendor id", apperr.ErrUnauthorized)
		}
		p.VendorID = id
	default:
		return Principal{}, fmt.Errorf("%w: unknown role %q", apperr.ErrUnauthorized, c.Role)
	}
	if p.Subject == "" {
		return Principal{}, fmt.Errorf("%w: token without subject", apperr.ErrUnauthorized)
	}
	return p, nil
}

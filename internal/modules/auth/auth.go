package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role is the kind of principal the identity collaborator vouches for.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// Principal is the opaque identity attached to every core operation.
// VendorID is set only for RoleVendor.
type Principal struct {
	Subject  string    `json:"sub"`
	Role     Role      `json:"role"`
	VendorID uuid.UUID `json:"vendor_id,omitempty"`
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal set by the middleware, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

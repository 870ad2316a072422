package principal

import (
	"context"

	"resort/internal/domain/guest"
)

// Principal is the authenticated caller of an operation.
type Principal struct {
	GuestID guest.ID
	Email   string
	Roles   []guest.Role
	system  bool
}

// System is the principal background jobs act as. It passes every admin check.
func System() Principal {
	return Principal{Email: "system", Roles: []guest.Role{guest.RoleAdmin}, system: true}
}

func (p Principal) IsSystem() bool {
	return p.system
}

func (p Principal) HasRole(role guest.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool {
	return p.system || p.HasRole(guest.RoleAdmin)
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

package middleware

import (
	"context"
	"errors"

	"resort/internal/app/commands"
	"resort/internal/app/principal"
	"resort/internal/app/queries"
)

var (
	ErrUnauthenticated = errors.New("middleware: authentication required")
	ErrForbidden       = errors.New("middleware: insufficient permissions")
)

type Authorizer interface {
	Authorize(ctx context.Context, message any) error
}

// AdminOnly is implemented by messages restricted to administrators.
type AdminOnly interface {
	AdminOnly() bool
}

// AdminPolicy lets through every message except AdminOnly ones, which need
// an admin (or system) principal in the context.
type AdminPolicy struct{}

func (AdminPolicy) Authorize(ctx context.Context, message any) error {
	restricted, ok := message.(AdminOnly)
	if !ok || !restricted.AdminOnly() {
		return nil
	}
	p, ok := principal.FromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if !p.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func Authorization(a Authorizer) CommandMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next commands.Bus) commands.Bus {
		return CommandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := a.Authorize(ctx, cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryAuthorization(a Authorizer) QueryMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next queries.Bus) queries.Bus {
		return QueryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := a.Authorize(ctx, q); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}

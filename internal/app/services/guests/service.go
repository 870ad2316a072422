package guests

import (
	"context"
	"log/slog"
	"time"

	domainguest "resort/internal/domain/guest"
)

// PasswordHasher validates and hashes an optional sign-in password for
// staff-created guests.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	Guests    domainguest.Repository
	Passwords PasswordHasher
	Logger    *slog.Logger
	Now       func() time.Time
}

type CreateParams struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

func (s *Service) List(ctx context.Context) ([]*domainguest.Guest, error) {
	return s.Guests.List(ctx)
}

func (s *Service) Get(ctx context.Context, id domainguest.ID) (*domainguest.Guest, error) {
	return s.Guests.ByID(ctx, id)
}

// Create records a guest. Without a password the guest exists for bookings
// and reviews only and cannot sign in.
func (s *Service) Create(ctx context.Context, params CreateParams) (*domainguest.Guest, error) {
	var hash string
	if params.Password != "" {
		var err error
		if hash, err = s.Passwords.HashPassword(params.Password); err != nil {
			return nil, err
		}
	}
	g, err := domainguest.New(domainguest.CreateParams{
		FullName:     params.FullName,
		Email:        params.Email,
		Phone:        params.Phone,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	if existing, err := s.Guests.ByEmail(ctx, g.Email); err == nil && existing != nil {
		return nil, domainguest.ErrEmailAlreadyUsed
	}
	if err := s.Guests.Create(ctx, g); err != nil {
		return nil, err
	}
	s.logger().Info("guest created", "guest_id", g.ID)
	return g, nil
}

type UpdateParams struct {
	FullName *string
	Email    *string
	Phone    *string
	Password *string
}

func (s *Service) Update(ctx context.Context, id domainguest.ID, params UpdateParams) (*domainguest.Guest, error) {
	g, err := s.Guests.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch := domainguest.Patch{FullName: params.FullName, Email: params.Email, Phone: params.Phone}
	if params.Password != nil {
		hash, err := s.Passwords.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	previousEmail := g.Email
	if err := g.Apply(patch); err != nil {
		return nil, err
	}
	if g.Email != previousEmail {
		if other, err := s.Guests.ByEmail(ctx, g.Email); err == nil && other != nil && other.ID != g.ID {
			return nil, domainguest.ErrEmailAlreadyUsed
		}
	}
	if err := s.Guests.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) Delete(ctx context.Context, id domainguest.ID) error {
	if err := s.Guests.Delete(ctx, id); err != nil {
		return err
	}
	s.logger().Info("guest deleted", "guest_id", id)
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

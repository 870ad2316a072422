package guest

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrEmailRequired       = errors.New("guest: email is required")
	ErrInvalidEmail        = errors.New("guest: email is invalid")
	ErrPasswordHashMissing = errors.New("guest: password hash is required")
	ErrNameRequired        = errors.New("guest: full name is required")
	ErrEmailAlreadyUsed    = errors.New("guest: email already registered")
	ErrNotFound            = errors.New("guest: not found")
)

type ID int64

type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// Guest is a person known to the resort. Only guests with a password hash
// can sign in; records created by staff usually have none.
type Guest struct {
	ID           ID
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Guest, error)
	ByEmail(ctx context.Context, email string) (*Guest, error)
	// List returns guests newest first.
	List(ctx context.Context) ([]*Guest, error)
	// Create fails with ErrEmailAlreadyUsed when the email is taken.
	Create(ctx context.Context, g *Guest) error
	Save(ctx context.Context, g *Guest) error
	Delete(ctx context.Context, id ID) error
	CountAdmins(ctx context.Context) (int, error)
}

type CreateParams struct {
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

func New(params CreateParams) (*Guest, error) {
	email, err := NormalizeEmail(params.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(params.FullName)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &Guest{
		FullName:     name,
		Email:        email,
		Phone:        strings.TrimSpace(params.Phone),
		PasswordHash: params.PasswordHash,
		IsAdmin:      params.IsAdmin,
		CreatedAt:    now.UTC(),
	}, nil
}

func (g *Guest) CanSignIn() bool {
	return g.PasswordHash != ""
}

func (g *Guest) Roles() []Role {
	if g.IsAdmin {
		return []Role{RoleGuest, RoleAdmin}
	}
	return []Role{RoleGuest}
}

// Patch is an admin edit of a guest profile. Email changes go through the
// same uniqueness check as registration.
type Patch struct {
	FullName     *string
	Email        *string
	Phone        *string
	PasswordHash *string
	IsAdmin      *bool
}

func (g *Guest) Apply(p Patch) error {
	next := *g
	if p.FullName != nil {
		next.FullName = strings.TrimSpace(*p.FullName)
		if next.FullName == "" {
			return ErrNameRequired
		}
	}
	if p.Email != nil {
		email, err := NormalizeEmail(*p.Email)
		if err != nil {
			return err
		}
		next.Email = email
	}
	if p.Phone != nil {
		next.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.PasswordHash != nil {
		if strings.TrimSpace(*p.PasswordHash) == "" {
			return ErrPasswordHashMissing
		}
		next.PasswordHash = *p.PasswordHash
	}
	if p.IsAdmin != nil {
		next.IsAdmin = *p.IsAdmin
	}
	*g = next
	return nil
}

func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmailRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

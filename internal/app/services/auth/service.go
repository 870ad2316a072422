package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"resort/internal/app/principal"
	domainauth "resort/internal/domain/auth"
	domainguest "resort/internal/domain/guest"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidToken       = errors.New("auth: invalid or expired token")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("auth: password must be at most 72 bytes")
	ErrAdminRequired      = errors.New("auth: only an admin can register another admin")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Claims is what a signed access token carries.
type Claims struct {
	TokenID   domainauth.TokenID
	GuestID   domainguest.ID
	Email     string
	Admin     bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Issue(claims Claims) (string, error)
	Parse(token string) (Claims, error)
}

type Service struct {
	Guests     domainguest.Repository
	Sessions   domainauth.SessionStore
	Passwords  PasswordHasher
	Tokens     TokenIssuer
	SessionTTL time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

type RegisterAdminParams struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	Guest     *domainguest.Guest
	Token     string
	ExpiresAt time.Time
}

type ResolveResult struct {
	Guest   *domainguest.Guest
	Session *domainauth.Session
}

// RegisterAdmin creates an admin account. While no admin exists anyone may
// call it, which is how a fresh install is bootstrapped; afterwards the
// caller must be an admin.
func (s *Service) RegisterAdmin(ctx context.Context, caller *principal.Principal, params RegisterAdminParams) (*domainguest.Guest, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	admins, err := s.Guests.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if admins > 0 && (caller == nil || !caller.IsAdmin()) {
		return nil, ErrAdminRequired
	}
	if err := validatePassword(params.Password); err != nil {
		return nil, err
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	g, err := domainguest.New(domainguest.CreateParams{
		FullName:     params.FullName,
		Email:        params.Email,
		Phone:        params.Phone,
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Guests.Create(ctx, g); err != nil {
		return nil, err
	}
	s.logger().Info("admin registered", "guest_id", g.ID, "email", g.Email, "bootstrap", admins == 0)
	return g, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	g, err := s.Guests.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainguest.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !g.CanSignIn() {
		return nil, ErrInvalidCredentials
	}
	if err := s.Passwords.Compare(g.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, expires, err := s.issueSession(ctx, g)
	if err != nil {
		return nil, err
	}
	s.logger().Info("guest authenticated", "guest_id", g.ID, "admin", g.IsAdmin)
	return &AuthResult{Guest: g, Token: token, ExpiresAt: expires}, nil
}

// Logout revokes the session behind token. Unknown or malformed tokens are
// ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.Sessions.Delete(ctx, claims.TokenID); err != nil && !errors.Is(err, domainauth.ErrSessionNotFound) {
		return err
	}
	s.logger().Info("session terminated", "guest_id", claims.GuestID)
	return nil
}

// ResolveToken verifies the signature and expiry of token, then checks that
// its session has not been revoked.
func (s *Service) ResolveToken(ctx context.Context, token string) (*ResolveResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	session, err := s.Sessions.Get(ctx, claims.TokenID)
	if err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if session.Expired(s.now()) || session.GuestID != claims.GuestID {
		_ = s.Sessions.Delete(ctx, session.TokenID)
		return nil, ErrInvalidToken
	}
	g, err := s.Guests.ByID(ctx, session.GuestID)
	if err != nil {
		_ = s.Sessions.Delete(ctx, session.TokenID)
		if errors.Is(err, domainguest.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &ResolveResult{Guest: g, Session: session}, nil
}

func (s *Service) issueSession(ctx context.Context, g *domainguest.Guest) (string, time.Time, error) {
	now := s.now()
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		TokenID: domainauth.TokenID(uuid.NewString()),
		GuestID: g.ID,
		Roles:   g.Roles(),
		TTL:     s.sessionTTL(),
		Now:     now,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	token, err := s.Tokens.Issue(Claims{
		TokenID:   session.TokenID,
		GuestID:   g.ID,
		Email:     g.Email,
		Admin:     g.IsAdmin,
		IssuedAt:  session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return "", time.Time{}, err
	}
	return token, session.ExpiresAt, nil
}

// HashPassword validates and hashes a password for guest records managed
// by staff.
func (s *Service) HashPassword(password string) (string, error) {
	if s.Passwords == nil {
		return "", errors.New("auth: password hasher required")
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}
	return s.Passwords.Hash(password)
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 24 * time.Hour
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

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Guests == nil:
		return errors.New("auth: guest repository required")
	case s.Sessions == nil:
		return errors.New("auth: session store required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token issuer required")
	default:
		return nil
	}
}

package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resort/internal/app/principal"
	"resort/internal/app/services/auth"
	domainguest "resort/internal/domain/guest"
	"resort/internal/infra/security"
	"resort/internal/infra/storage/memory"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newService(t *testing.T) (*auth.Service, *memory.GuestRepository, *clock) {
	t.Helper()
	issuer, err := security.NewJWTIssuer("unit-secret", "resort")
	require.NoError(t, err)
	guests := memory.NewGuestRepository()
	clk := &clock{now: time.Now().UTC()}
	return &auth.Service{
		Guests:     guests,
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:     issuer,
		SessionTTL: time.Hour,
		Now:        clk.Now,
	}, guests, clk
}

func bootstrap(t *testing.T, svc *auth.Service) *domainguest.Guest {
	t.Helper()
	g, err := svc.RegisterAdmin(context.Background(), nil, auth.RegisterAdminParams{
		FullName: "Manager",
		Email:    "Manager@Resort.test",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return g
}

func TestRegisterAdminBootstrapsOnce(t *testing.T) {
	svc, _, _ := newService(t)
	admin := bootstrap(t, svc)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "manager@resort.test", admin.Email)
	assert.NotEqual(t, "s3cret-pass", admin.PasswordHash)

	_, err := svc.RegisterAdmin(context.Background(), nil, auth.RegisterAdminParams{FullName: "B", Email: "b@resort.test", Password: "password-b"})
	assert.ErrorIs(t, err, auth.ErrAdminRequired)

	caller := principal.Principal{GuestID: admin.ID, Roles: admin.Roles()}
	second, err := svc.RegisterAdmin(context.Background(), &caller, auth.RegisterAdminParams{FullName: "B", Email: "b@resort.test", Password: "password-b"})
	require.NoError(t, err)
	assert.True(t, second.IsAdmin)

	_, err = svc.RegisterAdmin(context.Background(), &caller, auth.RegisterAdminParams{FullName: "C", Email: "c@resort.test", Password: "short"})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestLoginResolveLogout(t *testing.T) {
	svc, _, _ := newService(t)
	admin := bootstrap(t, svc)
	ctx := context.Background()

	_, err := svc.Login(ctx, auth.LoginParams{Email: "manager@resort.test", Password: "wrong-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = svc.Login(ctx, auth.LoginParams{Email: "nobody@resort.test", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	res, err := svc.Login(ctx, auth.LoginParams{Email: " MANAGER@resort.test ", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	resolved, err := svc.ResolveToken(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, resolved.Guest.ID)

	require.NoError(t, svc.Logout(ctx, res.Token))
	_, err = svc.ResolveToken(ctx, res.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	assert.NoError(t, svc.Logout(ctx, "garbage"), "unknown tokens are ignored")
}

func TestSessionsExpire(t *testing.T) {
	svc, _, clk := newService(t)
	bootstrap(t, svc)
	ctx := context.Background()

	res, err := svc.Login(ctx, auth.LoginParams{Email: "manager@resort.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	clk.now = clk.now.Add(2 * time.Hour)
	_, err = svc.ResolveToken(ctx, res.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestGuestsWithoutPasswordCannotSignIn(t *testing.T) {
	svc, guests, _ := newService(t)
	g, err := domainguest.New(domainguest.CreateParams{FullName: "Walk In", Email: "walkin@example.com"})
	require.NoError(t, err)
	require.NoError(t, guests.Create(context.Background(), g))

	_, err = svc.Login(context.Background(), auth.LoginParams{Email: "walkin@example.com", Password: ""})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestHashPasswordValidatesLength(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.HashPassword("1234567")
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
	_, err = svc.HashPassword(strings.Repeat("a", auth.MaxPasswordBytes+1))
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
	// Multi-byte runes count by bytes against the bcrypt limit.
	_, err = svc.HashPassword(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)

	hash, err := svc.HashPassword("12345678")
	require.NoError(t, err)
	assert.NoError(t, security.BcryptHasher{}.Compare(hash, "12345678"))
}

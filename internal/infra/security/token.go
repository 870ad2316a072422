package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"resort/internal/app/services/auth"
	domainauth "resort/internal/domain/auth"
	"resort/internal/domain/guest"
)

var (
	ErrSecretRequired = errors.New("token: signing secret required")
	ErrMalformedToken = errors.New("token: malformed claims")
)

type accessClaims struct {
	Email string `json:"email"`
	Admin bool   `json:"adm"`
	jwt.RegisteredClaims
}

// JWTIssuer signs access tokens with HS256.
type JWTIssuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

var _ auth.TokenIssuer = (*JWTIssuer)(nil)

func NewJWTIssuer(secret, issuer string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	return &JWTIssuer{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

func (i *JWTIssuer) Issue(c auth.Claims) (string, error) {
	claims := accessClaims{
		Email: c.Email,
		Admin: c.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        string(c.TokenID),
			Subject:   strconv.FormatInt(int64(c.GuestID), 10),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

func (i *JWTIssuer) Parse(raw string) (auth.Claims, error) {
	var claims accessClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		return auth.Claims{}, err
	}
	if !token.Valid || claims.ID == "" || claims.ExpiresAt == nil {
		return auth.Claims{}, ErrMalformedToken
	}
	if i.issuer != "" && claims.Issuer != i.issuer {
		return auth.Claims{}, ErrMalformedToken
	}
	guestID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || guestID <= 0 {
		return auth.Claims{}, ErrMalformedToken
	}
	out := auth.Claims{
		TokenID:   domainauth.TokenID(claims.ID),
		GuestID:   guest.ID(guestID),
		Email:     claims.Email,
		Admin:     claims.Admin,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

package dto

import (
	"time"

	domainguest "resort/internal/domain/guest"
)

// Guest never carries the password hash.
type Guest struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func MapGuest(g *domainguest.Guest) Guest {
	if g == nil {
		return Guest{}
	}
	return Guest{
		ID:        int64(g.ID),
		FullName:  g.FullName,
		Email:     g.Email,
		Phone:     g.Phone,
		IsAdmin:   g.IsAdmin,
		CreatedAt: g.CreatedAt,
	}
}

func MapGuests(in []*domainguest.Guest) Collection[Guest] {
	return collect(in, MapGuest)
}

type AccessToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

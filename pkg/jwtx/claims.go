package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens stay short so a stolen one ages out
// quickly; refresh tokens carry the long session.
const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 14 * 24 * time.Hour
)

// Claims is the payload signed into every plog token. Access tokens carry the
// full member identity; refresh tokens carry only the subject (email).
type Claims struct {
	jwt.RegisteredClaims

	// MemberID is the numeric primary key of the member (access tokens only).
	MemberID int64 `json:"id,omitempty"`

	// Nickname is the member's display name (access tokens only).
	Nickname string `json:"nickname,omitempty"`
}

// NewAccessClaims builds the claims for an access token issued at now.
func NewAccessClaims(memberID int64, email, nickname string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		MemberID: memberID,
		Nickname: nickname,
	}
}

// NewRefreshClaims builds the claims for a refresh token issued at now.
// Only the subject goes in; anything else would outlive its accuracy.
func NewRefreshClaims(email string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

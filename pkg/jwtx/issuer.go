package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer signs plog tokens with a process-wide symmetric secret (HS256).
// The secret is loaded once at startup and never mutated afterwards, so an
// Issuer is safe for concurrent use.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer creates an Issuer from the shared secret. Zero TTLs fall back to
// the package defaults.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwtx: empty signing secret")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// AccessToken issues a signed access token for the given member.
func (i *Issuer) AccessToken(memberID int64, email, nickname string) (string, error) {
	return i.Sign(NewAccessClaims(memberID, email, nickname, i.accessTTL, time.Now()))
}

// RefreshToken issues a signed refresh token identifying the member by email.
func (i *Issuer) RefreshToken(email string) (string, error) {
	return i.Sign(NewRefreshClaims(email, i.refreshTTL, time.Now()))
}

// Sign turns arbitrary claims into a compact signed token string.
func (i *Issuer) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// AccessTTL reports the configured access-token lifetime.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL reports the configured refresh-token lifetime.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed structure, a bad signature, or an
	// unexpected algorithm. The caller cannot tell these apart and should not
	// need to.
	ErrInvalidToken = errors.New("jwtx: invalid token")

	// ErrExpired means the token parsed and verified but its exp claim is in
	// the past.
	ErrExpired = errors.New("jwtx: token expired")
)

// Verifier validates a token string and returns its claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256Verifier validates tokens signed with the shared HS256 secret.
// Verification is a pure function of (token, secret, current time); nothing
// is looked up server-side.
type HS256Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for tokens produced with the same secret.
func NewVerifier(secret string) *HS256Verifier {
	return &HS256Verifier{secret: []byte(secret)}
}

// Verify parses and validates a token. Expiry is checked by the parser
// against wall-clock time with no leeway.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		// An expired-but-authentic token is the one failure callers treat
		// differently, so surface it as its own sentinel.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return *claims, nil
}

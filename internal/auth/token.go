package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the data encoded into the session token. No expiry claim is
// set: a token stays valid until the client drops it.
type Claims struct {
	Email  string `json:"email"`
	UserID int64  `json:"userid"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// Sign produces a compact HS256 token for the given identity.
func Sign(secret []byte, email string, userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:  email,
		UserID: userID,
	})
	return token.SignedString(secret)
}

// Verify checks the signature against secret and returns the decoded claims.
// Any failure (malformed, tampered, wrong key) comes back as ErrInvalidToken.
func Verify(secret []byte, tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// CookieName is the session cookie issued on signup/login.
const CookieName = "findmyanime_session"

// The cookie value is a signed HS256 token whose jti is the server-side
// session token. The signature stops clients from minting session IDs;
// everything else about the session lives in the Store.
func SignSessionToken(secret []byte, sessionToken string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sessionToken,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseSessionToken verifies the cookie value and returns the session token.
func ParseSessionToken(secret []byte, cookieValue string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(cookieValue, &claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !tok.Valid || claims.ID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.ID, nil
}

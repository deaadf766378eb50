// Package auth handles bearer credential extraction and verification of
// signed link tokens issued by the account-link flow.
package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ExtractBearer pulls the credential out of an Authorization header. Returns
// an empty string when the header is absent or not a bearer scheme; a
// malformed header is treated as anonymous, never as an error.
func ExtractBearer(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// LinkTokenVerifier validates HMAC-signed link tokens. The link flow mints
// one of these when an account is connected, with the local user ID in the
// sub claim. It exists so a freshly-linked session can authenticate before
// the client has swapped to the stored instance credential.
type LinkTokenVerifier struct {
	secret []byte
}

// NewLinkTokenVerifier creates a verifier for the given shared secret.
// An empty secret disables link-token verification.
func NewLinkTokenVerifier(secret string) *LinkTokenVerifier {
	return &LinkTokenVerifier{secret: []byte(secret)}
}

// UserIDFromToken verifies the signature and returns the sub claim.
func (v *LinkTokenVerifier) UserIDFromToken(tokenString string) (string, error) {
	if len(v.secret) == 0 {
		return "", fmt.Errorf("link tokens are not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to verify token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("no sub claim in token")
	}

	return sub, nil
}

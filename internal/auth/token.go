package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Token verification failures. Malformed tokens are expected input, so each
// failure mode gets its own sentinel instead of a generic error.
var (
	ErrTokenFormat    = errors.New("invalid token format")
	ErrTokenSignature = errors.New("invalid token signature")
	ErrTokenPayload   = errors.New("invalid token payload")
)

// Claims is the signed session-token payload. Exp is Unix seconds; zero
// means the token carries no expiration, which the middleware rejects.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp,omitempty"`
}

var encodedHeader = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

// EncodeToken serializes claims as a compact HS256 token:
// base64url(header).base64url(payload).base64url(signature), no padding.
func EncodeToken(claims Claims, secret []byte) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	signingInput := encodedHeader + "." + base64.RawURLEncoding.EncodeToString(payload)
	signature := sign(signingInput, secret)

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}

// DecodeToken verifies the signature and returns the claims. It does not
// check expiration; callers own that policy. The signature comparison is
// constant time.
func DecodeToken(token string, secret []byte) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrTokenFormat
	}

	provided, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return Claims{}, ErrTokenSignature
	}
	expected := sign(parts[0]+"."+parts[1], secret)
	if !hmac.Equal(provided, expected) {
		return Claims{}, ErrTokenSignature
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrTokenPayload
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, ErrTokenPayload
	}

	return claims, nil
}

func sign(input string, secret []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(input))
	return mac.Sum(nil)
}

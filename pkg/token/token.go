// Package token creates compact HMAC-signed tokens carrying a JSON payload.
// Tokens are not encrypted; the payload is readable by anyone holding the token.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrInvalidToken     = errors.New("invalid token format")
	ErrSignatureInvalid = errors.New("signature mismatch")
)

// sigLen is the number of HMAC bytes kept in the token.
const sigLen = 16

// Generate encodes payload and appends a truncated HMAC-SHA256 signature.
func Generate[T any](payload T, secret string) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data) + "." +
		base64.RawURLEncoding.EncodeToString(signature(data, secret)), nil
}

// Parse verifies tok and decodes its payload.
func Parse[T any](tok, secret string) (T, error) {
	var payload T

	payloadPart, sigPart, ok := strings.Cut(tok, ".")
	if !ok || strings.Contains(sigPart, ".") {
		return payload, ErrInvalidToken
	}
	data, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return payload, errors.Join(ErrInvalidToken, err)
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return payload, errors.Join(ErrInvalidToken, err)
	}

	if subtle.ConstantTimeCompare(sig, signature(data, secret)) != 1 {
		return payload, ErrSignatureInvalid
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, errors.Join(ErrInvalidToken, err)
	}
	return payload, nil
}

func signature(data []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(data)
	return mac.Sum(nil)[:sigLen]
}

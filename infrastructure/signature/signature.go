// Package signature verifies PubSubHubbub X-Hub-Signature headers.
package signature

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingSignature   = errors.New("X-Hub-Signature header not found")
	ErrMalformedSignature = errors.New("invalid X-Hub-Signature format, expected 'sha1=hash'")
	ErrSignatureMismatch  = errors.New("X-Hub-Signature verification failed")
)

// Verify checks the HMAC-SHA1 signature of a raw notification body against the
// shared hub secret. The hex digest comparison is case-insensitive and
// constant time.
func Verify(signatureHeader string, body []byte, secret string) error {
	if signatureHeader == "" {
		return ErrMissingSignature
	}

	parts := strings.SplitN(signatureHeader, "=", 2)
	if len(parts) != 2 || parts[0] != "sha1" {
		return fmt.Errorf("%w, got %q", ErrMalformedSignature, signatureHeader)
	}

	claimed, err := hex.DecodeString(parts[1])
	if err != nil {
		return fmt.Errorf("%w, got %q", ErrMalformedSignature, signatureHeader)
	}

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)

	if !hmac.Equal(mac.Sum(nil), claimed) {
		return ErrSignatureMismatch
	}
	return nil
}

// Package auth provides password hashing and stateless token issuing for
// the account endpoints.
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hasher derives and verifies password hashes.
type Hasher interface {
	Hash(password, salt string) string
	NewSalt() (string, error)
}

// TokenIssuer mints and validates bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// SHA256Hasher hashes salted passwords with SHA-256.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

func (SHA256Hasher) NewSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

var ErrInvalidToken = errors.New("invalid token")

// HMACTokenIssuer issues tokens of the form
// base64(userID|expiryUnix)|base64(hmac). Tokens are self-contained, no
// server-side session state.
type HMACTokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewHMACTokenIssuer(secret string, ttl time.Duration) *HMACTokenIssuer {
	return &HMACTokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (i *HMACTokenIssuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	expiry := i.now().Add(i.ttl).Unix()
	payload := userID + "|" + strconv.FormatInt(expiry, 10)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return encoded + "." + i.sign(encoded), nil
}

func (i *HMACTokenIssuer) Verify(token string) (string, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return "", ErrInvalidToken
	}
	if !hmac.Equal([]byte(i.sign(encoded)), []byte(sig)) {
		return "", ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidToken
	}
	userID, expiryStr, ok := strings.Cut(string(payload), "|")
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil || i.now().Unix() > expiry {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (i *HMACTokenIssuer) sign(encoded string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Package simtoken signs and verifies the tracking tokens embedded in
// simulation emails. A token binds a campaign name and a recipient email,
// carries an expiry, and is HMAC-signed so landing-page clicks cannot forge
// events for arbitrary pairs.
package simtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken covers malformed, tampered, or unparseable tokens.
	ErrInvalidToken = errors.New("invalid tracking token")
	// ErrExpiredToken marks a structurally valid token past its expiry.
	ErrExpiredToken = errors.New("expired tracking token")
)

// Claims is the decoded content of a tracking token.
type Claims struct {
	SimulationName string
	Email          string
	ExpiresAt      time.Time
}

// Codec encodes and decodes signed tracking tokens.
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodec returns a codec signing with key. Tokens expire ttl after encode.
func NewCodec(key string, ttl time.Duration) *Codec {
	return &Codec{key: []byte(key), ttl: ttl, now: time.Now}
}

// Encode builds a token for (simulation, email). The payload is
// pipe-delimited, so neither field may contain "|".
func (c *Codec) Encode(simulationName, email string) (string, error) {
	if simulationName == "" || email == "" {
		return "", fmt.Errorf("%w: empty field", ErrInvalidToken)
	}
	if strings.Contains(simulationName, "|") || strings.Contains(email, "|") {
		return "", fmt.Errorf("%w: field contains delimiter", ErrInvalidToken)
	}

	expiry := c.now().Add(c.ttl).Unix()
	payload := fmt.Sprintf("%s|%s|%d", simulationName, email, expiry)
	encoded := base64.URLEncoding.EncodeToString([]byte(payload))
	return encoded + "." + c.sign(payload), nil
}

// Decode verifies and parses a token. Signature and expiry failures return
// ErrInvalidToken/ErrExpiredToken; callers must record nothing in either case.
func (c *Codec) Decode(token string) (*Claims, error) {
	encoded, signature, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ErrInvalidToken
	}

	decoded, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidToken
	}
	payload := string(decoded)

	if !c.verify(payload, signature) {
		return nil, ErrInvalidToken
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}
	expiry, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		SimulationName: parts[0],
		Email:          parts[1],
		ExpiresAt:      time.Unix(expiry, 0),
	}
	if c.now().After(claims.ExpiresAt) {
		return nil, ErrExpiredToken
	}
	return claims, nil
}

func (c *Codec) sign(data string) string {
	h := hmac.New(sha256.New, c.key)
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (c *Codec) verify(data, signature string) bool {
	expected := c.sign(data)
	return hmac.Equal([]byte(expected), []byte(signature))
}

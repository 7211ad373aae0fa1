package notify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	// ErrTokenInvalid is returned for tokens that are malformed or carry a bad signature
	ErrTokenInvalid = errors.New("notify: invalid token")
	// ErrTokenExpired is returned for well-formed tokens whose lifetime has passed
	ErrTokenExpired = errors.New("notify: token expired")
)

// Token identifies an email notification subscription inside a signed link.
// It replaces a password; the signed string is handed out in notification emails.
type Token struct {
	AppealID       string `json:"appeal_id"`
	SubscriptionID string `json:"subscription_id"`
	Email          string `json:"email"`
	Issued         int64  `json:"issued"`
}

// TokenCodec signs and verifies notification tokens using HMAC-SHA256
type TokenCodec struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenCodec creates a new token codec with the given signing secret and token lifetime
func NewTokenCodec(secret string, lifetime time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:   []byte(secret),
		lifetime: lifetime,
	}
}

// Sign serializes and signs the given token
func (codec *TokenCodec) Sign(token Token) (string, error) {
	payload, err := json.Marshal(token)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + codec.signature(encoded), nil
}

// Verify checks the signature and lifetime of a signed token and returns its contents
func (codec *TokenCodec) Verify(signed string) (*Token, error) {
	encoded, signature, ok := strings.Cut(signed, ".")
	if !ok {
		return nil, ErrTokenInvalid
	}
	if !hmac.Equal([]byte(signature), []byte(codec.signature(encoded))) {
		return nil, ErrTokenInvalid
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	token := new(Token)
	if err := json.Unmarshal(payload, token); err != nil {
		return nil, ErrTokenInvalid
	}

	if time.Since(time.Unix(token.Issued, 0)) > codec.lifetime {
		return nil, ErrTokenExpired
	}
	return token, nil
}

func (codec *TokenCodec) signature(encoded string) string {
	mac := hmac.New(sha256.New, codec.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

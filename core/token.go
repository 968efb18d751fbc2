package core

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"
)

// BearerPrefix is the scheme marker carried in the Authorization header.
const BearerPrefix = "Bearer "

const tokenAlg = "HS256"

// TokenClaims is the payload embedded in a signed bearer token.
// Timestamps are epoch milliseconds.
type TokenClaims struct {
	Subject   string `json:"sub"`
	Roles     []Role `json:"roles"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

type tokenHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// Internal verification causes. Collapsed to a single boolean by Verify;
// only the log line tells them apart.
var (
	errTokenMalformed   = errors.New("malformed token")
	errTokenSignature   = errors.New("invalid token signature")
	errTokenUnsupported = errors.New("unsupported token algorithm")
	errTokenExpired     = errors.New("expired token")
	errTokenEmptyClaims = errors.New("empty token claims")
)

// TokenCodec issues and verifies HMAC-SHA256 signed bearer tokens.
// The signing key is injected at construction and treated as immutable;
// tokens are self-contained, nothing is stored server-side.
type TokenCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenCodec constructs a codec with the given signing key and token lifetime.
func NewTokenCodec(key []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{key: key, ttl: ttl, now: time.Now}
}

// Issue creates a signed token for subject with the given roles and returns
// it with the Bearer prefix so it can be placed directly in a header.
func (tc *TokenCodec) Issue(subject string, roles []Role) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errTokenEmptyClaims
	}

	now := tc.now()
	claims := TokenClaims{
		Subject:   subject,
		Roles:     roles,
		IssuedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(tc.ttl).UnixMilli(),
	}

	headerJSON, err := json.Marshal(tokenHeader{Alg: tokenAlg, Typ: "JWT"})
	if err != nil {
		return "", err
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	signingInput := encodeSegment(headerJSON) + "." + encodeSegment(payloadJSON)
	return BearerPrefix + signingInput + "." + tc.sign(signingInput), nil
}

// Strip removes the Bearer prefix from a raw header value.
func (tc *TokenCodec) Strip(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" || !strings.HasPrefix(raw, BearerPrefix) {
		return "", ErrMalformedCredential
	}
	return raw[len(BearerPrefix):], nil
}

// Verify reports whether token carries a valid signature, well-formed claims,
// and has not expired. All failure causes collapse to false; the cause is
// only logged. Callers must call Verify before trusting Claims.
func (tc *TokenCodec) Verify(token string) bool {
	if err := tc.check(token); err != nil {
		log.Printf("token verification failed: %v", err)
		return false
	}
	return true
}

// Claims extracts subject and roles from a token that Verify has already
// accepted. It does not re-check the signature or expiry.
func (tc *TokenCodec) Claims(token string) (TokenClaims, error) {
	_, payload, _, err := splitToken(token)
	if err != nil {
		return TokenClaims{}, err
	}
	var claims TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return TokenClaims{}, errTokenMalformed
	}
	return claims, nil
}

func (tc *TokenCodec) check(token string) error {
	header, payload, sig, err := splitToken(token)
	if err != nil {
		return err
	}

	var hdr tokenHeader
	if err := json.Unmarshal(header, &hdr); err != nil {
		return errTokenMalformed
	}
	if hdr.Alg != tokenAlg {
		return errTokenUnsupported
	}

	dot := strings.LastIndexByte(token, '.')
	if !hmac.Equal(sig, tc.hmacSum(token[:dot])) {
		return errTokenSignature
	}

	var claims TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return errTokenMalformed
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return errTokenEmptyClaims
	}
	if !tc.now().Before(time.UnixMilli(claims.ExpiresAt)) {
		return errTokenExpired
	}
	return nil
}

func (tc *TokenCodec) sign(input string) string {
	return base64.RawURLEncoding.EncodeToString(tc.hmacSum(input))
}

func (tc *TokenCodec) hmacSum(input string) []byte {
	mac := hmac.New(sha256.New, tc.key)
	mac.Write([]byte(input))
	return mac.Sum(nil)
}

// splitToken decodes the three dot-separated segments of a compact token.
func splitToken(token string) (header, payload, sig []byte, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, nil, nil, errTokenMalformed
	}
	if header, err = decodeSegment(parts[0]); err != nil {
		return nil, nil, nil, errTokenMalformed
	}
	if payload, err = decodeSegment(parts[1]); err != nil {
		return nil, nil, nil, errTokenMalformed
	}
	if sig, err = decodeSegment(parts[2]); err != nil {
		return nil, nil, nil, errTokenMalformed
	}
	return header, payload, sig, nil
}

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestJWTSecret is the HMAC key shared by tests that need bearer tokens.
const TestJWTSecret = "seeds-metrics-test-secret-at-least-32-bytes"

// Token describes a bearer token to sign in tests. A zero TTL means one
// hour; a negative TTL yields an already expired token.
type Token struct {
	Issuer  string
	Subject string
	Roles   []string
	TTL     time.Duration
}

func (tok Token) claims() jwt.MapClaims {
	ttl := tok.TTL
	if ttl == 0 {
		ttl = time.Hour
	}
	now := time.Now()
	c := jwt.MapClaims{
		"sub": tok.Subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"jti": uuid.NewString(),
	}
	if tok.Issuer != "" {
		c["iss"] = tok.Issuer
	}
	if len(tok.Roles) > 0 {
		c["roles"] = tok.Roles
	}
	return c
}

// SignHS256 signs tok with an HMAC secret.
func SignHS256(t *testing.T, secret string, tok Token) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tok.claims()).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// SignRS256 signs tok with an RSA private key.
func SignRS256(t *testing.T, key *rsa.PrivateKey, tok Token) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, tok.claims()).SignedString(key)
	require.NoError(t, err)
	return signed
}

// GenerateRSAKey returns a 2048-bit key and its PEM-encoded public half.
func GenerateRSAKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub}))
}

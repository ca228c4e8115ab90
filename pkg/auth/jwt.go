package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds the key material used to verify bearer tokens. Tokens are
// issued by the platform's identity service; this package only validates.
type JWTConfig struct {
	// PublicKeyPEM is a PEM-encoded RSA public key. When set, only RS256
	// tokens are accepted and Secret is ignored.
	PublicKeyPEM string

	// Secret is the HMAC-SHA256 key used when no public key is configured.
	Secret string

	// Issuer, when set, must match the token's iss claim.
	Issuer string

	// Leeway tolerates clock skew on exp and nbf.
	Leeway time.Duration
}

// JWTService validates bearer tokens.
type JWTService struct {
	parser *jwt.Parser
	key    any
}

// NewJWTService builds a validator for the configured key material.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	opts := []jwt.ParserOption{jwt.WithLeeway(cfg.Leeway)}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	svc := &JWTService{}
	switch {
	case cfg.PublicKeyPEM != "":
		pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		svc.key = pubKey
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))

	case cfg.Secret != "":
		svc.key = []byte(cfg.Secret)
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	default:
		return nil, errors.New("jwt configuration requires PublicKeyPEM or Secret")
	}

	svc.parser = jwt.NewParser(opts...)
	return svc, nil
}

// ValidateToken parses and validates a JWT token string.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// ConfigFromEnv builds a validation config from the key material the daemon
// was given. A public key file wins over an inline public key, which wins
// over the shared secret.
func ConfigFromEnv(publicKeyPEM, publicKeyFile, secret, issuer string) (JWTConfig, error) {
	cfg := JWTConfig{PublicKeyPEM: publicKeyPEM, Secret: secret, Issuer: issuer}
	if publicKeyFile != "" {
		data, err := os.ReadFile(publicKeyFile)
		if err != nil {
			return JWTConfig{}, fmt.Errorf("failed to read key file %q: %w", publicKeyFile, err)
		}
		cfg.PublicKeyPEM = string(data)
	}
	return cfg, nil
}

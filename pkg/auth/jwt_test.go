package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/LibertytechX/seeds-metrics/pkg/testutil"
)

const testIssuer = "seeds-test"

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{Secret: testutil.TestJWTSecret, Issuer: testIssuer})
	require.NoError(t, err)
	return svc
}

func signed(t *testing.T, subject string, roles ...string) string {
	t.Helper()
	return testutil.SignHS256(t, testutil.TestJWTSecret, testutil.Token{
		Issuer:  testIssuer,
		Subject: subject,
		Roles:   roles,
	})
}

func TestValidateToken(t *testing.T) {
	svc := newTestJWTService(t)

	claims, err := svc.ValidateToken(signed(t, "batch-runner", RoleService, RoleViewer))

	require.NoError(t, err)
	assert.Equal(t, "batch-runner", claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.True(t, claims.HasRole(RoleService))
	assert.False(t, claims.HasRole(RoleAdmin))
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := newTestJWTService(t)

	tests := []struct {
		name  string
		token string
	}{
		{
			name: "expired",
			token: testutil.SignHS256(t, testutil.TestJWTSecret, testutil.Token{
				Issuer: testIssuer, Subject: "u", TTL: -time.Minute,
			}),
		},
		{
			name: "wrong issuer",
			token: testutil.SignHS256(t, testutil.TestJWTSecret, testutil.Token{
				Issuer: "elsewhere", Subject: "u",
			}),
		},
		{
			name: "wrong secret",
			token: testutil.SignHS256(t, "another-secret", testutil.Token{
				Issuer: testIssuer, Subject: "u",
			}),
		},
		{
			name:  "missing subject",
			token: signed(t, ""),
		},
		{
			name:  "garbage",
			token: "not-a-token",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestValidateToken_Leeway(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: testutil.TestJWTSecret, Leeway: time.Minute})
	require.NoError(t, err)

	token := testutil.SignHS256(t, testutil.TestJWTSecret, testutil.Token{Subject: "u", TTL: -10 * time.Second})

	_, err = svc.ValidateToken(token)
	assert.NoError(t, err)
}

func TestValidateToken_RSA(t *testing.T) {
	key, pubPEM := testutil.GenerateRSAKey(t)
	svc, err := NewJWTService(JWTConfig{PublicKeyPEM: pubPEM})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(testutil.SignRS256(t, key, testutil.Token{
		Subject: "analyst-7",
		Roles:   []string{RoleRiskAnalyst},
	}))
	require.NoError(t, err)
	assert.Equal(t, "analyst-7", claims.Subject)
	assert.True(t, claims.HasRole(RoleRiskAnalyst))

	// An HMAC token signed with the PEM text as secret must not pass.
	forged := testutil.SignHS256(t, pubPEM, testutil.Token{Subject: "mallory"})
	_, err = svc.ValidateToken(forged)
	assert.Error(t, err)
}

func TestNewJWTService_RequiresKeyMaterial(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)

	_, err = NewJWTService(JWTConfig{PublicKeyPEM: "not pem"})
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	cfg, err := ConfigFromEnv("", "", "secret", "seeds")
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Secret)
	assert.Equal(t, "seeds", cfg.Issuer)

	_, pubPEM := testutil.GenerateRSAKey(t)
	path := filepath.Join(t.TempDir(), "jwt.pub")
	require.NoError(t, os.WriteFile(path, []byte(pubPEM), 0o600))
	cfg, err = ConfigFromEnv("", path, "secret", "seeds")
	require.NoError(t, err)
	assert.Equal(t, pubPEM, cfg.PublicKeyPEM)

	_, err = ConfigFromEnv("", "/does/not/exist.pem", "", "")
	assert.Error(t, err)
}

func TestInterceptors(t *testing.T) {
	svc := newTestJWTService(t)
	authn := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})
	authz := RequireMethodRoles(map[string][]string{
		"/svc/Recompute": {RoleAdmin, RoleService},
	})
	ok := func(ctx context.Context, req interface{}) (interface{}, error) { return "ok", nil }

	call := func(ctx context.Context, method string) (interface{}, error) {
		info := &grpc.UnaryServerInfo{FullMethod: method}
		return authn(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return authz(ctx, req, info, ok)
		})
	}
	withToken := func(roles ...string) context.Context {
		token := signed(t, "caller", roles...)
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	}

	t.Run("skips listed methods", func(t *testing.T) {
		resp, err := call(context.Background(), "/grpc.health.v1.Health/Check")
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})

	t.Run("requires a token", func(t *testing.T) {
		_, err := call(metadata.NewIncomingContext(context.Background(), metadata.MD{}), "/svc/Get")
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("rejects a bad token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer junk"))
		_, err := call(ctx, "/svc/Get")
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("any role may call unguarded methods", func(t *testing.T) {
		_, err := call(withToken(RoleViewer), "/svc/Get")
		assert.NoError(t, err)
	})

	t.Run("guarded methods need a listed role", func(t *testing.T) {
		_, err := call(withToken(RoleViewer), "/svc/Recompute")
		assert.Equal(t, codes.PermissionDenied, status.Code(err))

		_, err = call(withToken(RoleService), "/svc/Recompute")
		assert.NoError(t, err)
	})
}

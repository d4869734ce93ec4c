package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// newIdentityProvider serves a fresh RSA public key the way the external
// identity provider does, and returns the matching private key for signing
// test tokens.
func newIdentityProvider(t *testing.T) (*httptest.Server, *rsa.PrivateKey) {
	t.Helper()

	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)

	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubBytes,
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"key": string(pubPEM)})
	}))
	t.Cleanup(server.Close)

	return server, privKey
}

func signToken(t *testing.T, privKey *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(privKey)
	require.NoError(t, err)
	return signed
}

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", Authenticated(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"email": CallerEmail(c)})
	})
	return app
}

func TestAuthenticatedMissingHeader(t *testing.T) {
	app := newAuthApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticatedMalformedHeader(t *testing.T) {
	app := newAuthApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticatedInvalidToken(t *testing.T) {
	server, _ := newIdentityProvider(t)
	t.Setenv("PUBLIC_KEY_URL", server.URL)

	app := newAuthApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthenticatedWrongKey(t *testing.T) {
	server, _ := newIdentityProvider(t)
	t.Setenv("PUBLIC_KEY_URL", server.URL)

	// Token signed with a different key than the provider serves.
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	token := signToken(t, otherKey, jwt.MapClaims{
		"email": "rider@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	app := newAuthApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthenticatedValidToken(t *testing.T) {
	server, privKey := newIdentityProvider(t)
	t.Setenv("PUBLIC_KEY_URL", server.URL)

	token := signToken(t, privKey, jwt.MapClaims{
		"email": "rider@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	app := newAuthApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "rider@example.com", body["email"])
}

func TestAuthenticatedTokenWithoutEmail(t *testing.T) {
	server, privKey := newIdentityProvider(t)
	t.Setenv("PUBLIC_KEY_URL", server.URL)

	token := signToken(t, privKey, jwt.MapClaims{
		"sub": "someone",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	app := newAuthApp()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func newRoleApp(lookup RoleLookup, allowed ...string) *fiber.App {
	app := fiber.New()
	// Stand-in for Authenticated so the role gate sees an email.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("email", "caller@example.com")
		return c.Next()
	})
	app.Get("/admin", RequireRole(lookup, allowed...), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestRequireRoleAllows(t *testing.T) {
	lookup := func(ctx context.Context, email string) (string, error) {
		return "admin", nil
	}
	app := newRoleApp(lookup, "admin")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	lookup := func(ctx context.Context, email string) (string, error) {
		return "user", nil
	}
	app := newRoleApp(lookup, "admin", "rider")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsLookupFailure(t *testing.T) {
	lookup := func(ctx context.Context, email string) (string, error) {
		return "", errors.New("store unavailable")
	}
	app := newRoleApp(lookup, "admin")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleWithoutEmail(t *testing.T) {
	lookup := func(ctx context.Context, email string) (string, error) {
		return "admin", nil
	}
	app := fiber.New()
	app.Get("/admin", RequireRole(lookup, "admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"parcel-delivery/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// FetchPublicKey fetches the identity provider's public key from the given URL.
func FetchPublicKey(url string) (*rsa.PublicKey, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// The response contains a JSON object with a "key" field.
	keyResponse := struct {
		Key string `json:"key"`
	}{}

	if err := json.Unmarshal(body, &keyResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal public key response: %w", err)
	}

	// Parse the PEM-encoded public key
	block, _ := pem.Decode([]byte(keyResponse.Key))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("failed to decode PEM block containing public key")
	}

	pubKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaPubKey, ok := pubKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}

	return rsaPubKey, nil
}

// VerifyJWT verifies a JWT token using the fetched RSA public key.
func VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	publicKey := identityKey()
	if publicKey == nil {
		return nil, fmt.Errorf("failed to get public key")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the signing method is RSA
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid JWT token")
}

func identityKey() *rsa.PublicKey {
	publicKeyURL := os.Getenv("PUBLIC_KEY_URL")

	publicKey, err := FetchPublicKey(publicKeyURL)
	if err != nil {
		return nil
	}

	return publicKey
}

// Authenticated checks for a valid bearer token and attaches the decoded
// claims to the request context. A missing or malformed credential fails
// with 401; a credential that does not verify fails with 403.
func Authenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Authorization token missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		// Validate Bearer Token
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Invalid authorization header format",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := VerifyJWT(tokenParts[1])
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Message: "Invalid or expired token",
				Status:  fiber.StatusForbidden,
			})
		}

		email, _ := claims["email"].(string)
		if email == "" {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Message: "Email missing in token claims",
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals("user", claims)
		c.Locals("email", email)

		return c.Next()
	}
}

// CallerEmail returns the authenticated caller's email from the request
// context.
func CallerEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("email").(string)
	return email
}

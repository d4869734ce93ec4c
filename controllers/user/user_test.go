package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parcel-delivery/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	uc := NewUserController(nil, logger.NewAsyncLogger(nil))

	app := fiber.New()
	app.Post("/users", uc.Upsert)
	app.Patch("/users/:email/role", uc.UpdateRole)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestUpsertRequiresEmail(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/users", fiber.Map{"name": "No Email"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	app := setupApp(t)

	for _, role := range []string{"superadmin", "ADMIN", ""} {
		resp := doJSON(t, app, http.MethodPatch, "/users/a@b.com/role", fiber.Map{"role": role})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "role %q", role)
	}
}

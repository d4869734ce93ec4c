package rider

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parcel-delivery/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	rc := NewRiderController(nil, logger.NewAsyncLogger(nil))

	app := fiber.New()
	app.Post("/riders", rc.Apply)
	app.Patch("/riders/:id/status", rc.UpdateStatus)
	app.Post("/rider/earnings/add", rc.AddEarnings)
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

func TestApplyRequiresContactFields(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/riders", fiber.Map{
		"name":  "Karim",
		"email": "karim@example.com",
		// phone missing
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	app := setupApp(t)
	id := primitive.NewObjectID().Hex()

	for _, status := range []string{"suspended", "APPROVED", ""} {
		resp := doJSON(t, app, http.MethodPatch, "/riders/"+id+"/status", fiber.Map{"status": status})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "status %q", status)
	}
}

func TestUpdateStatusRejectsMalformedID(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPatch, "/riders/bogus/status", fiber.Map{"status": "approved"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddEarningsRequiresParcelID(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/rider/earnings/add", fiber.Map{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddEarningsRejectsMalformedParcelID(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/rider/earnings/add", fiber.Map{"parcel_id": "not-hex"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

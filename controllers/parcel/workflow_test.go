package parcel

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

// setupApp wires the workflow routes against a controller whose store is
// never reached: these tests cover the validation paths that reject a
// request before any document-store access.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	pc := NewParcelController(nil, logger.NewAsyncLogger(nil))

	app := fiber.New()
	app.Get("/parcels/:id", pc.Get)
	app.Delete("/parcels/:id", pc.Delete)
	app.Patch("/parcels/:id/assign-rider", pc.AssignRider)
	app.Patch("/parcels/:id/status", pc.UpdateDeliveryStatus)
	app.Patch("/parcels/:id/cashout", pc.Cashout)
	return app
}

func patchJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGetRejectsMalformedID(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/parcels/not-an-object-id", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteRejectsMalformedID(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodDelete, "/parcels/xyz", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateDeliveryStatusRejectsUnknownValue(t *testing.T) {
	app := setupApp(t)
	id := primitive.NewObjectID().Hex()

	for _, status := range []string{"returned", "pending", "service_center_delivered", "DELIVERED", ""} {
		resp := patchJSON(t, app, "/parcels/"+id+"/status", fiber.Map{"status": status})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "status %q", status)
	}
}

func TestAssignRiderRequiresRiderFields(t *testing.T) {
	app := setupApp(t)
	id := primitive.NewObjectID().Hex()

	resp := patchJSON(t, app, "/parcels/"+id+"/assign-rider", fiber.Map{
		"rider_name": "Rahim",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssignRiderRejectsMalformedRiderID(t *testing.T) {
	app := setupApp(t)
	id := primitive.NewObjectID().Hex()

	resp := patchJSON(t, app, "/parcels/"+id+"/assign-rider", fiber.Map{
		"rider_id":    "not-hex",
		"rider_name":  "Rahim",
		"rider_email": "rahim@example.com",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCashoutRejectsMalformedID(t *testing.T) {
	app := setupApp(t)

	resp := patchJSON(t, app, "/parcels/bogus/cashout", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

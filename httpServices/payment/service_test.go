package httpServices

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreatePaymentIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payment_intents", r.URL.Path)
		require.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		require.Equal(t, "50000", r.FormValue("amount"))
		require.Equal(t, "usd", r.FormValue("currency"))

		json.NewEncoder(w).Encode(IntentResponse{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret_abc",
			Amount:       50000,
			Currency:     "usd",
			Status:       "requires_payment_method",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")

	intent, err := client.CreatePaymentIntent(50000, "")
	require.NoError(t, err)
	require.Equal(t, "pi_123", intent.ID)
	require.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
	require.Equal(t, int64(50000), intent.Amount)
}

func TestCreatePaymentIntentPropagatesGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"message": "Amount must be at least 50 cents",
				"type":    "invalid_request_error",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")

	_, err := client.CreatePaymentIntent(1, "usd")
	require.Error(t, err)
	require.Equal(t, "Amount must be at least 50 cents", err.Error())
}

func TestCreatePaymentIntentNonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_123")

	_, err := client.CreatePaymentIntent(50000, "usd")
	require.Error(t, err)
	require.Contains(t, err.Error(), "non-OK status")
}

package httpServices

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PaymentClient talks to the external payment gateway. Intent creation is
// delegated wholesale; gateway failures are propagated to the caller.
type PaymentClient struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

func NewClient(baseURL, secretKey string) *PaymentClient {
	return &PaymentClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
	}
}

// CreatePaymentIntent asks the gateway for a new charge intent in the given
// amount (smallest currency unit) and returns the intent with its client
// secret.
func (c *PaymentClient) CreatePaymentIntent(amountInCents int64, currency string) (*IntentResponse, error) {
	if currency == "" {
		currency = "usd"
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountInCents, 10))
	form.Set("currency", currency)

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var gwErr gatewayError
		if err := json.Unmarshal(body, &gwErr); err == nil && gwErr.Error.Message != "" {
			return nil, errors.New(gwErr.Error.Message)
		}
		return nil, errors.New("payment gateway returned non-OK status: " + resp.Status)
	}

	var intent IntentResponse
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, err
	}

	return &intent, nil
}

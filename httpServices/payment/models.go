package httpServices

// IntentRequest is the charge-intent creation payload sent to the gateway.
type IntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// IntentResponse is the subset of the gateway's payment-intent object the
// frontend needs to complete the charge.
type IntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// gatewayError mirrors the gateway's error envelope.
type gatewayError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

package tracking

import "fmt"

type AppendEventRequest struct {
	TrackingID string `json:"tracking_id" validate:"required"`
	ParcelID   string `json:"parcel_id"`
	Status     string `json:"status" validate:"required"`
	Message    string `json:"message"`
}

// Validate validates the AppendEventRequest fields
func (r *AppendEventRequest) Validate() error {
	if r.TrackingID == "" {
		return fmt.Errorf("tracking_id is required")
	}

	if r.Status == "" {
		return fmt.Errorf("status is required")
	}

	return nil
}

package parcel

import (
	"fmt"

	parcelModel "parcel-delivery/models/parcel"
)

type AssignRiderRequest struct {
	RiderID    string `json:"rider_id" validate:"required"`
	RiderName  string `json:"rider_name" validate:"required"`
	RiderEmail string `json:"rider_email" validate:"required"`
}

// Validate validates the AssignRiderRequest fields
func (r *AssignRiderRequest) Validate() error {
	if r.RiderID == "" {
		return fmt.Errorf("rider_id is required")
	}

	if r.RiderEmail == "" {
		return fmt.Errorf("rider_email is required")
	}

	return nil
}

type UpdateStatusRequest struct {
	Status parcelModel.DeliveryStatus `json:"status" validate:"required"`
}

// Validate validates the UpdateStatusRequest fields
func (r *UpdateStatusRequest) Validate() error {
	if r.Status == "" {
		return fmt.Errorf("status is required")
	}

	// Only the rider-settable subset is accepted here
	if !r.Status.IsUpdatable() {
		return fmt.Errorf("status must be one of 'rider_assigned', 'in-transit' or 'delivered'")
	}

	return nil
}

type ListFilters struct {
	Email          string `query:"email"`
	PaymentStatus  string `query:"payment_status"`
	DeliveryStatus string `query:"delivery_status"`
}

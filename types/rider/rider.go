package rider

import (
	"fmt"

	riderModel "parcel-delivery/models/rider"
)

type ApplyRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Age       int    `json:"age"`
	NID       string `json:"nid"`
	Region    string `json:"region"`
	District  string `json:"district"`
	City      string `json:"city"`
	BikeBrand string `json:"bike_brand"`
	BikeRegNo string `json:"bike_reg_no"`
}

// Validate validates the ApplyRequest fields
func (r *ApplyRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}

	if r.Email == "" {
		return fmt.Errorf("email is required")
	}

	if r.Phone == "" {
		return fmt.Errorf("phone is required")
	}

	return nil
}

type UpdateStatusRequest struct {
	Status riderModel.Status `json:"status" validate:"required"`
	Email  string            `json:"email"`
}

// Validate validates the UpdateStatusRequest fields
func (r *UpdateStatusRequest) Validate() error {
	if r.Status == "" {
		return fmt.Errorf("status is required")
	}

	if !r.Status.IsValid() {
		return fmt.Errorf("status must be one of 'approved', 'pending', 'inactive' or 'cancelled'")
	}

	return nil
}

type AddEarningsRequest struct {
	ParcelID string `json:"parcel_id" validate:"required"`
}

// Validate validates the AddEarningsRequest fields
func (r *AddEarningsRequest) Validate() error {
	if r.ParcelID == "" {
		return fmt.Errorf("parcel_id is required")
	}

	return nil
}

package user

import (
	"fmt"

	"parcel-delivery/constants"
)

type UpsertRequest struct {
	Email string `json:"email" validate:"required"`
	Name  string `json:"name"`
}

// Validate validates the UpsertRequest fields
func (r *UpsertRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}

	return nil
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// Validate validates the UpdateRoleRequest fields
func (r *UpdateRoleRequest) Validate() error {
	if r.Role == "" {
		return fmt.Errorf("role is required")
	}

	if !constants.IsValidRole(r.Role) {
		return fmt.Errorf("role must be one of 'user', 'rider' or 'admin'")
	}

	return nil
}

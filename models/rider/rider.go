package rider

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rider represents a delivery rider, from application through approval,
// together with the earnings ledger maintained by the cashout workflow.
type Rider struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Age       int                `bson:"age,omitempty" json:"age,omitempty"`
	NID       string             `bson:"nid,omitempty" json:"nid,omitempty"`
	Region    string             `bson:"region" json:"region"`
	District  string             `bson:"district" json:"district"`
	City      string             `bson:"city" json:"city"`
	BikeBrand string             `bson:"bike_brand,omitempty" json:"bike_brand,omitempty"`
	BikeRegNo string             `bson:"bike_reg_no,omitempty" json:"bike_reg_no,omitempty"`

	Status     Status     `bson:"status" json:"status"`
	WorkStatus WorkStatus `bson:"work_status" json:"work_status"`

	TotalEarnings     float64 `bson:"total_earnings" json:"total_earnings"`
	PendingEarnings   float64 `bson:"pending_earnings" json:"pending_earnings"`
	CashedOutEarnings float64 `bson:"cashed_out_earnings" json:"cashed_out_earnings"`

	EarningsHistory []EarningsEntry `bson:"earnings_history" json:"earnings_history"`

	AppliedAt  time.Time  `bson:"applied_at" json:"applied_at"`
	ApprovedAt *time.Time `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
}

// EarningsEntry is one commission record in a rider's ledger, keyed by the
// parcel it was earned on. A rider never holds two entries for one parcel.
type EarningsEntry struct {
	ParcelID primitive.ObjectID `bson:"parcel_id" json:"parcel_id"`
	Amount   float64            `bson:"amount" json:"amount"`
	Status   EarningsStatus     `bson:"status" json:"status"`
	Date     time.Time          `bson:"date" json:"date"`
}

// Status is the admin-controlled lifecycle state of a rider account.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusInactive  Status = "inactive"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusInactive, StatusCancelled:
		return true
	default:
		return false
	}
}

// WorkStatus tracks whether the rider currently carries a parcel.
type WorkStatus string

const (
	WorkStatusIdle       WorkStatus = "idle"
	WorkStatusInDelivery WorkStatus = "in-delivery"
)

// EarningsStatus is the state of a single ledger entry.
type EarningsStatus string

const (
	EarningsStatusPending   EarningsStatus = "pending"
	EarningsStatusCashedOut EarningsStatus = "cashed_out"
)

// HasEarningForParcel reports whether the rider's ledger already holds an
// entry for the given parcel.
func (r *Rider) HasEarningForParcel(parcelID primitive.ObjectID) bool {
	for _, e := range r.EarningsHistory {
		if e.ParcelID == parcelID {
			return true
		}
	}
	return false
}

// PendingEntryForParcel returns the pending ledger entry for the given
// parcel, or nil when the rider holds none.
func (r *Rider) PendingEntryForParcel(parcelID primitive.ObjectID) *EarningsEntry {
	for i := range r.EarningsHistory {
		e := &r.EarningsHistory[i]
		if e.ParcelID == parcelID && e.Status == EarningsStatusPending {
			return e
		}
	}
	return nil
}

package parcel

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Parcel represents a shipment record tracked from creation through
// assignment, delivery and rider cashout.
type Parcel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrackingID string             `bson:"tracking_id" json:"tracking_id"`
	Title      string             `bson:"title" json:"title"`
	Type       string             `bson:"type" json:"type"`
	Weight     float64            `bson:"weight,omitempty" json:"weight,omitempty"`

	CreatedBy string `bson:"created_by" json:"created_by"`

	SenderName      string `bson:"sender_name" json:"sender_name"`
	SenderRegion    string `bson:"sender_region" json:"sender_region"`
	SenderCenter    string `bson:"sender_center" json:"sender_center"`
	SenderAddress   string `bson:"sender_address" json:"sender_address"`
	ReceiverName    string `bson:"receiver_name" json:"receiver_name"`
	ReceiverRegion  string `bson:"receiver_region" json:"receiver_region"`
	ReceiverCenter  string `bson:"receiver_center" json:"receiver_center"`
	ReceiverAddress string `bson:"receiver_address" json:"receiver_address"`

	Cost float64 `bson:"cost" json:"cost"`

	PaymentStatus  PaymentStatus  `bson:"payment_status" json:"payment_status"`
	DeliveryStatus DeliveryStatus `bson:"delivery_status" json:"delivery_status"`
	CashoutStatus  CashoutStatus  `bson:"cashout_status" json:"cashout_status"`

	AssignedRiderID    *primitive.ObjectID `bson:"assigned_rider_id,omitempty" json:"assigned_rider_id,omitempty"`
	AssignedRiderEmail string              `bson:"assigned_rider_email,omitempty" json:"assigned_rider_email,omitempty"`
	AssignedRiderName  string              `bson:"assigned_rider_name,omitempty" json:"assigned_rider_name,omitempty"`

	TransactionID string `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	AssignedAt  *time.Time `bson:"assigned_at,omitempty" json:"assigned_at,omitempty"`
	PickedAt    *time.Time `bson:"picked_at,omitempty" json:"picked_at,omitempty"`
	DeliveredAt *time.Time `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	CashedOutAt *time.Time `bson:"cashed_out_at,omitempty" json:"cashed_out_at,omitempty"`
}

// StatusCount is one bucket of the delivery-status aggregation.
type StatusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

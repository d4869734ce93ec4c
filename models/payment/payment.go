package payment

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is an append-only confirmation record written when a parcel is
// paid for.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ParcelID      primitive.ObjectID `bson:"parcel_id" json:"parcel_id"`
	UserEmail     string             `bson:"user_email" json:"user_email"`
	TransactionID string             `bson:"transaction_id" json:"transaction_id"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	PaidAt        time.Time          `bson:"paid_at" json:"paid_at"`
}

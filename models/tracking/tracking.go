package tracking

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is one entry in the append-only audit trail kept per tracking
// identifier. Events are never mutated or deleted.
type Event struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrackingID string              `bson:"tracking_id" json:"tracking_id"`
	ParcelID   *primitive.ObjectID `bson:"parcel_id,omitempty" json:"parcel_id,omitempty"`
	Status     string              `bson:"status" json:"status"`
	Message    string              `bson:"message" json:"message"`
	UpdatedBy  string              `bson:"updated_by" json:"updated_by"`
	Timestamp  time.Time           `bson:"timestamp" json:"timestamp"`
}

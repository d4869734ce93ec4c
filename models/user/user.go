package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account record created on first sign-in. The role field is
// mutated only by an admin action or implicitly when a rider application
// is approved.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	LastLogIn time.Time          `bson:"last_log_in" json:"last_log_in"`
}

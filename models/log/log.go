package log

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Log represents an HTTP request/response log entry.
type Log struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Method          string             `bson:"method" json:"method"`
	URL             string             `bson:"url" json:"url"`
	RequestBody     string             `bson:"request_body" json:"request_body"`
	RequestHeaders  string             `bson:"request_headers" json:"request_headers"`
	ResponseBody    string             `bson:"response_body" json:"response_body"`
	ResponseHeaders string             `bson:"response_headers" json:"response_headers"`
	StatusCode      int                `bson:"status_code" json:"status_code"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

package logger

import (
	"context"
	"log"
	"time"

	log_model "parcel-delivery/models/log"
	"parcel-delivery/types"

	"go.mongodb.org/mongo-driver/mongo"
)

// AsyncLogger drains request/response log entries from a buffered channel
// into the logs collection so handlers never block on audit writes.
type AsyncLogger struct {
	db      *mongo.Database
	channel chan types.LogEntry
}

func NewAsyncLogger(db *mongo.Database) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100), // Buffered channel to hold log entries
	}
}

func (logger *AsyncLogger) ProcessLog() {
	log.Println("Starting asynchronous logger...")

	for logEntry := range logger.channel {
		dbLog := log_model.Log{
			Method:          logEntry.Method,
			URL:             logEntry.URL,
			RequestBody:     logEntry.RequestBody,
			ResponseBody:    logEntry.ResponseBody,
			RequestHeaders:  logEntry.RequestHeaders,
			ResponseHeaders: logEntry.ResponseHeaders,
			StatusCode:      logEntry.StatusCode,
			CreatedAt:       logEntry.CreatedAt,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := logger.db.Collection("logs").InsertOne(ctx, dbLog); err != nil {
			log.Printf("Failed to insert new log entry: %v", err)
		}
		cancel()
	}
}

// Log pushes a log entry into the channel
func (logger *AsyncLogger) Log(entry types.LogEntry) {
	logger.channel <- entry
}

package tracking

import (
	"time"

	"parcel-delivery/database"
	"parcel-delivery/logger"
	"parcel-delivery/middleware"
	trackingModel "parcel-delivery/models/tracking"
	"parcel-delivery/types"
	trackingTypes "parcel-delivery/types/tracking"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TrackingController maintains the append-only event trail kept per
// tracking identifier.
type TrackingController struct {
	DB             *mongo.Database
	loggerInstance *logger.AsyncLogger
}

func NewTrackingController(db *mongo.Database, asyncLogger *logger.AsyncLogger) *TrackingController {
	return &TrackingController{
		DB:             db,
		loggerInstance: asyncLogger,
	}
}

func (tc *TrackingController) logAPIRequest(c *fiber.Ctx) {
	tc.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
}

func (tc *TrackingController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	tc.logAPIRequest(c)
	return result
}

func (tc *TrackingController) trackings() *mongo.Collection {
	return tc.DB.Collection(database.TrackingsCollection)
}

// AppendEvent appends a timestamped status event. Events are never mutated
// or deleted.
func (tc *TrackingController) AppendEvent(c *fiber.Ctx) error {
	var req trackingTypes.AppendEventRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return tc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return tc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	event := trackingModel.Event{
		TrackingID: req.TrackingID,
		Status:     req.Status,
		Message:    req.Message,
		UpdatedBy:  middleware.CallerEmail(c),
		Timestamp:  time.Now(),
	}

	if req.ParcelID != "" {
		parcelID, err := primitive.ObjectIDFromHex(req.ParcelID)
		if err != nil {
			return tc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid parcel id",
			})
		}
		event.ParcelID = &parcelID
	}

	result, err := tc.trackings().InsertOne(c.Context(), event)
	if err != nil {
		logger.Error("Failed to append tracking event", err)
		return tc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to append tracking event",
		})
	}

	return tc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Tracking event appended successfully",
		Data:    fiber.Map{"inserted_id": result.InsertedID},
	})
}

// ListEvents returns the audit trail for a tracking id, oldest first.
func (tc *TrackingController) ListEvents(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")
	if trackingID == "" {
		return tc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "tracking id is required",
		})
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}) // oldest first

	cursor, err := tc.trackings().Find(c.Context(), bson.M{"tracking_id": trackingID}, opts)
	if err != nil {
		logger.Error("Failed to fetch tracking events", err)
		return tc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch tracking events",
		})
	}

	results := []trackingModel.Event{}
	if err := cursor.All(c.Context(), &results); err != nil {
		logger.Error("Failed to decode tracking events", err)
		return tc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode tracking events",
		})
	}

	return tc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Tracking events fetched successfully",
		Data:    results,
	})
}

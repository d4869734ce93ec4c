package parcel

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"parcel-delivery/database"
	"parcel-delivery/logger"
	"parcel-delivery/middleware"
	parcelModel "parcel-delivery/models/parcel"
	"parcel-delivery/types"
	parcelTypes "parcel-delivery/types/parcel"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ParcelController handles parcel CRUD, filtered listings and the
// delivery-status aggregations.
type ParcelController struct {
	DB             *mongo.Database
	loggerInstance *logger.AsyncLogger
}

func NewParcelController(db *mongo.Database, asyncLogger *logger.AsyncLogger) *ParcelController {
	return &ParcelController{
		DB:             db,
		loggerInstance: asyncLogger,
	}
}

func (pc *ParcelController) logAPIRequest(c *fiber.Ctx) {
	pc.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
}

func (pc *ParcelController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c)
	return result
}

func (pc *ParcelController) parcels() *mongo.Collection {
	return pc.DB.Collection(database.ParcelsCollection)
}

// List returns parcels matching all supplied filters, latest first. Absent
// filters impose no constraint.
func (pc *ParcelController) List(c *fiber.Ctx) error {
	var filters parcelTypes.ListFilters
	if err := c.QueryParser(&filters); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid query parameters",
		})
	}

	query := bson.M{}
	if filters.Email != "" {
		query["created_by"] = filters.Email
	}
	if filters.PaymentStatus != "" {
		query["payment_status"] = filters.PaymentStatus
	}
	if filters.DeliveryStatus != "" {
		query["delivery_status"] = filters.DeliveryStatus
	}

	return pc.findParcels(c, query)
}

func (pc *ParcelController) findParcels(c *fiber.Ctx, query bson.M) error {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}) // latest first

	cursor, err := pc.parcels().Find(c.Context(), query, opts)
	if err != nil {
		logger.Error("Failed to fetch parcels", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch parcels",
		})
	}

	results := []parcelModel.Parcel{}
	if err := cursor.All(c.Context(), &results); err != nil {
		logger.Error("Failed to decode parcels", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode parcels",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcels fetched successfully",
		Data:    results,
	})
}

// Get returns a single parcel by id.
func (pc *ParcelController) Get(c *fiber.Ctx) error {
	id, err := utils.ObjectIDFromParam(c, "id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
		})
	}

	var p parcelModel.Parcel
	if err := pc.parcels().FindOne(c.Context(), bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Parcel not found",
			})
		}
		logger.Error("Failed to fetch parcel", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch parcel",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcel fetched successfully",
		Data:    p,
	})
}

// Create inserts a new parcel for the authenticated caller with the
// lifecycle fields initialised.
func (pc *ParcelController) Create(c *fiber.Ctx) error {
	var p parcelModel.Parcel
	if err := c.BodyParser(&p); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	p.ID = primitive.NilObjectID
	p.CreatedBy = middleware.CallerEmail(c)
	p.CreatedAt = time.Now()
	if p.TrackingID == "" {
		p.TrackingID = newTrackingID(p.CreatedAt)
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = parcelModel.PaymentStatusUnpaid
	}
	p.DeliveryStatus = parcelModel.DeliveryStatusPending
	p.CashoutStatus = parcelModel.CashoutStatusNone

	result, err := pc.parcels().InsertOne(c.Context(), p)
	if err != nil {
		logger.Error("Failed to save parcel", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save parcel",
		})
	}

	logger.Success("Parcel created: " + p.TrackingID)
	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Parcel created successfully",
		Data: fiber.Map{
			"inserted_id": result.InsertedID,
			"tracking_id": p.TrackingID,
		},
	})
}

// newTrackingID builds a human-readable tracking identifier.
func newTrackingID(at time.Time) string {
	return fmt.Sprintf("PCL-%s-%06d", strings.ToUpper(at.Format("20060102")), rand.Intn(1000000))
}

// Delete removes a parcel by id.
func (pc *ParcelController) Delete(c *fiber.Ctx) error {
	id, err := utils.ObjectIDFromParam(c, "id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
		})
	}

	result, err := pc.parcels().DeleteOne(c.Context(), bson.M{"_id": id})
	if err != nil {
		logger.Error("Failed to delete parcel", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete parcel",
		})
	}

	if result.DeletedCount == 0 {
		return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Parcel not found",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcel deleted successfully",
	})
}

// RiderParcels returns the caller rider's current assignments.
func (pc *ParcelController) RiderParcels(c *fiber.Ctx) error {
	email := middleware.CallerEmail(c)

	query := bson.M{
		"assigned_rider_email": email,
		"delivery_status": bson.M{"$in": []parcelModel.DeliveryStatus{
			parcelModel.DeliveryStatusRiderAssigned,
			parcelModel.DeliveryStatusInTransit,
		}},
	}
	return pc.findParcels(c, query)
}

// RiderCompletedParcels returns the caller rider's finished deliveries.
func (pc *ParcelController) RiderCompletedParcels(c *fiber.Ctx) error {
	email := middleware.CallerEmail(c)

	query := bson.M{
		"assigned_rider_email": email,
		"delivery_status": bson.M{"$in": []parcelModel.DeliveryStatus{
			parcelModel.DeliveryStatusDelivered,
			parcelModel.DeliveryStatusServiceCenter,
		}},
	}
	return pc.findParcels(c, query)
}

// StatusCounts groups all parcels by delivery status.
func (pc *ParcelController) StatusCounts(c *fiber.Ctx) error {
	return pc.aggregateStatusCounts(c, bson.M{})
}

// RiderStatusCounts groups the caller rider's parcels by delivery status.
func (pc *ParcelController) RiderStatusCounts(c *fiber.Ctx) error {
	email := middleware.CallerEmail(c)
	return pc.aggregateStatusCounts(c, bson.M{"assigned_rider_email": email})
}

func (pc *ParcelController) aggregateStatusCounts(c *fiber.Ctx, match bson.M) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$delivery_status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := pc.parcels().Aggregate(c.Context(), pipeline)
	if err != nil {
		logger.Error("Failed to aggregate status counts", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to aggregate status counts",
		})
	}

	counts := []parcelModel.StatusCount{}
	if err := cursor.All(c.Context(), &counts); err != nil {
		logger.Error("Failed to decode status counts", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode status counts",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Status counts fetched successfully",
		Data:    counts,
	})
}

package rider

import (
	"errors"
	"time"

	"parcel-delivery/database"
	"parcel-delivery/logger"
	"parcel-delivery/middleware"
	parcelModel "parcel-delivery/models/parcel"
	riderModel "parcel-delivery/models/rider"
	"parcel-delivery/services/earnings"
	"parcel-delivery/types"
	riderTypes "parcel-delivery/types/rider"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AddEarnings records the caller rider's commission for a delivered parcel.
// A second call for the same parcel fails with 409 and leaves the ledger
// unchanged.
func (rc *RiderController) AddEarnings(c *fiber.Ctx) error {
	var req riderTypes.AddEarningsRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	parcelID, err := primitive.ObjectIDFromHex(req.ParcelID)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
		})
	}

	email := middleware.CallerEmail(c)

	var p parcelModel.Parcel
	if err := rc.DB.Collection(database.ParcelsCollection).FindOne(c.Context(), bson.M{"_id": parcelID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Parcel not found",
			})
		}
		logger.Error("Failed to fetch parcel", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch parcel",
		})
	}

	var r riderModel.Rider
	if err := rc.riders().FindOne(c.Context(), bson.M{"email": email}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Rider not found",
			})
		}
		logger.Error("Failed to fetch rider", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch rider",
		})
	}

	// Double-entry guard: one commission per parcel per rider.
	if r.HasEarningForParcel(parcelID) {
		return rc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Earnings already recorded for this parcel",
		})
	}

	amount := earnings.Commission(p.Cost, p.SenderRegion, p.ReceiverRegion)

	update := earnings.AccrueUpdate(parcelID, amount, time.Now())
	if _, err := rc.riders().UpdateByID(c.Context(), r.ID, update); err != nil {
		logger.Error("Failed to record earnings", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to record earnings",
		})
	}

	logger.Success("Earnings recorded for parcel " + p.TrackingID)
	return rc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Earnings recorded successfully",
		Data:    fiber.Map{"amount": amount},
	})
}

// EarningsSummary returns the caller rider's balances and the earnings
// totals for the current day, week, month and year.
func (rc *RiderController) EarningsSummary(c *fiber.Ctx) error {
	email := middleware.CallerEmail(c)

	var r riderModel.Rider
	if err := rc.riders().FindOne(c.Context(), bson.M{"email": email}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Rider not found",
			})
		}
		logger.Error("Failed to fetch rider", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch rider",
		})
	}

	summary := earnings.BuildSummary(&r, time.Now())

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Earnings summary fetched successfully",
		Data:    summary,
	})
}

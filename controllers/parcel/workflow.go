package parcel

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
	parcelTypes "parcel-delivery/types/parcel"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AssignRider attaches a rider to a pending parcel and marks the rider as
// in delivery. Both writes commit in one session transaction.
func (pc *ParcelController) AssignRider(c *fiber.Ctx) error {
	id, err := utils.ObjectIDFromParam(c, "id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
		})
	}

	var req parcelTypes.AssignRiderRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	riderID, err := primitive.ObjectIDFromHex(req.RiderID)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid rider id",
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

	if !p.DeliveryStatus.CanTransitionTo(parcelModel.DeliveryStatusRiderAssigned) {
		return pc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Parcel already has a rider assigned",
		})
	}

	nowT := time.Now()
	err = database.WithTransaction(c.Context(), pc.DB, func(sc mongo.SessionContext) error {
		parcelUpdate := bson.M{"$set": bson.M{
			"assigned_rider_id":    riderID,
			"assigned_rider_email": req.RiderEmail,
			"assigned_rider_name":  req.RiderName,
			"assigned_at":          nowT,
			"delivery_status":      parcelModel.DeliveryStatusRiderAssigned,
		}}
		if _, err := pc.parcels().UpdateByID(sc, id, parcelUpdate); err != nil {
			return err
		}

		riders := pc.DB.Collection(database.RidersCollection)
		result, err := riders.UpdateByID(sc, riderID, bson.M{"$set": bson.M{
			"work_status": riderModel.WorkStatusInDelivery,
		}})
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Rider not found",
			})
		}
		logger.Error("Failed to assign rider", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to assign rider",
		})
	}

	logger.Success("Rider assigned to parcel " + p.TrackingID)
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Rider assigned successfully",
	})
}

// UpdateDeliveryStatus moves a parcel along the forward delivery edges,
// stamping pickup and delivery times as it goes.
func (pc *ParcelController) UpdateDeliveryStatus(c *fiber.Ctx) error {
	id, err := utils.ObjectIDFromParam(c, "id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
		})
	}

	var req parcelTypes.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
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

	if !p.DeliveryStatus.CanTransitionTo(req.Status) {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid delivery status transition from '" + p.DeliveryStatus.String() + "' to '" + req.Status.String() + "'",
		})
	}

	nowT := time.Now()
	set := bson.M{"delivery_status": req.Status}
	switch req.Status {
	case parcelModel.DeliveryStatusInTransit:
		set["picked_at"] = nowT
	case parcelModel.DeliveryStatusDelivered:
		set["delivered_at"] = nowT
	}

	if _, err := pc.parcels().UpdateByID(c.Context(), id, bson.M{"$set": set}); err != nil {
		logger.Error("Failed to update delivery status", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update delivery status",
		})
	}

	// A finished delivery frees the rider for the next assignment.
	if req.Status == parcelModel.DeliveryStatusDelivered && p.AssignedRiderID != nil {
		riders := pc.DB.Collection(database.RidersCollection)
		if _, err := riders.UpdateByID(c.Context(), *p.AssignedRiderID, bson.M{"$set": bson.M{
			"work_status": riderModel.WorkStatusIdle,
		}}); err != nil {
			logger.Error("Failed to reset rider work status", err)
		}
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Delivery status updated successfully",
	})
}

// Cashout converts the caller rider's pending commission on a delivered
// parcel into cashed-out earnings. The parcel flip and the ledger update
// share one session transaction.
func (pc *ParcelController) Cashout(c *fiber.Ctx) error {
	id, err := utils.ObjectIDFromParam(c, "id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
		})
	}

	email := middleware.CallerEmail(c)

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

	if p.CashoutStatus.IsCashedOut() {
		return pc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Parcel has already been cashed out",
		})
	}

	riders := pc.DB.Collection(database.RidersCollection)
	var r riderModel.Rider
	if err := riders.FindOne(c.Context(), bson.M{"email": email}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Rider not found",
			})
		}
		logger.Error("Failed to fetch rider", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch rider",
		})
	}

	// A cashout without a pending ledger entry would corrupt the balances.
	if r.PendingEntryForParcel(p.ID) == nil {
		return pc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "No pending earnings entry for this parcel",
		})
	}

	amount := earnings.Commission(p.Cost, p.SenderRegion, p.ReceiverRegion)
	nowT := time.Now()

	err = database.WithTransaction(c.Context(), pc.DB, func(sc mongo.SessionContext) error {
		// Guard the flip inside the filter so a concurrent cashout loses.
		result, err := pc.parcels().UpdateOne(sc,
			bson.M{"_id": id, "cashout_status": bson.M{"$ne": parcelModel.CashoutStatusCashedOut}},
			bson.M{"$set": bson.M{
				"cashout_status": parcelModel.CashoutStatusCashedOut,
				"cashed_out_at":  nowT,
			}},
		)
		if err != nil {
			return err
		}
		if result.ModifiedCount == 0 {
			return errAlreadyCashedOut
		}

		opts := options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: earnings.CashoutArrayFilters(p.ID),
		})
		_, err = riders.UpdateByID(sc, r.ID, earnings.CashoutUpdate(amount), opts)
		return err
	})
	if err != nil {
		if errors.Is(err, errAlreadyCashedOut) {
			return pc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Parcel has already been cashed out",
			})
		}
		logger.Error("Failed to cash out parcel", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to cash out parcel",
		})
	}

	logger.Success("Parcel cashed out: " + p.TrackingID)
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Cashout completed successfully",
		Data:    fiber.Map{"amount": amount},
	})
}

var errAlreadyCashedOut = errors.New("parcel already cashed out")

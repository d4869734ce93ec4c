package rider

import (
	"time"

	"parcel-delivery/constants"
	"parcel-delivery/database"
	"parcel-delivery/logger"
	riderModel "parcel-delivery/models/rider"
	"parcel-delivery/types"
	riderTypes "parcel-delivery/types/rider"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RiderController handles rider applications, admin listings and the
// approval workflow.
type RiderController struct {
	DB             *mongo.Database
	loggerInstance *logger.AsyncLogger
}

func NewRiderController(db *mongo.Database, asyncLogger *logger.AsyncLogger) *RiderController {
	return &RiderController{
		DB:             db,
		loggerInstance: asyncLogger,
	}
}

func (rc *RiderController) logAPIRequest(c *fiber.Ctx) {
	rc.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
}

func (rc *RiderController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.logAPIRequest(c)
	return result
}

func (rc *RiderController) riders() *mongo.Collection {
	return rc.DB.Collection(database.RidersCollection)
}

// Apply files a new rider application in the pending state with a zeroed
// earnings ledger.
func (rc *RiderController) Apply(c *fiber.Ctx) error {
	var req riderTypes.ApplyRequest
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

	r := riderModel.Rider{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Age:             req.Age,
		NID:             req.NID,
		Region:          req.Region,
		District:        req.District,
		City:            req.City,
		BikeBrand:       req.BikeBrand,
		BikeRegNo:       req.BikeRegNo,
		Status:          riderModel.StatusPending,
		WorkStatus:      riderModel.WorkStatusIdle,
		EarningsHistory: []riderModel.EarningsEntry{},
		AppliedAt:       time.Now(),
	}

	result, err := rc.riders().InsertOne(c.Context(), r)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return rc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "A rider application already exists for this email",
			})
		}
		logger.Error("Failed to save rider application", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save rider application",
		})
	}

	logger.Success("Rider application received: " + req.Email)
	return rc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Rider application submitted successfully",
		Data:    fiber.Map{"inserted_id": result.InsertedID},
	})
}

// ListPending returns rider applications awaiting review. Admin only.
func (rc *RiderController) ListPending(c *fiber.Ctx) error {
	return rc.findRiders(c, bson.M{"status": riderModel.StatusPending})
}

// ListActive returns approved riders, optionally narrowed to a district or
// city. Admin only.
func (rc *RiderController) ListActive(c *fiber.Ctx) error {
	query := bson.M{"status": riderModel.StatusApproved}
	if district := c.Query("district"); district != "" {
		query["district"] = district
	}
	if city := c.Query("city"); city != "" {
		query["city"] = city
	}
	return rc.findRiders(c, query)
}

func (rc *RiderController) findRiders(c *fiber.Ctx, query bson.M) error {
	opts := options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}})

	cursor, err := rc.riders().Find(c.Context(), query, opts)
	if err != nil {
		logger.Error("Failed to fetch riders", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch riders",
		})
	}

	results := []riderModel.Rider{}
	if err := cursor.All(c.Context(), &results); err != nil {
		logger.Error("Failed to decode riders", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode riders",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Riders fetched successfully",
		Data:    results,
	})
}

// UpdateStatus changes a rider's lifecycle state. Approval stamps the
// approval time and, when an email is supplied, promotes the matching user
// account to the rider role.
func (rc *RiderController) UpdateStatus(c *fiber.Ctx) error {
	id, err := utils.ObjectIDFromParam(c, "id")
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid rider id",
		})
	}

	var req riderTypes.UpdateStatusRequest
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

	set := bson.M{"status": req.Status}
	if req.Status == riderModel.StatusApproved {
		set["approved_at"] = time.Now()
	}

	err = database.WithTransaction(c.Context(), rc.DB, func(sc mongo.SessionContext) error {
		result, err := rc.riders().UpdateByID(sc, id, bson.M{"$set": set})
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}

		// Approval promotes the user account to the rider role.
		if req.Status == riderModel.StatusApproved && req.Email != "" {
			users := rc.DB.Collection(database.UsersCollection)
			if _, err := users.UpdateOne(sc,
				bson.M{"email": req.Email},
				bson.M{"$set": bson.M{"role": constants.RoleRider}},
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Rider not found",
			})
		}
		logger.Error("Failed to update rider status", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update rider status",
		})
	}

	logger.Success("Rider status updated: " + req.Status.String())
	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Rider status updated successfully",
	})
}

package user

import (
	"context"
	"errors"
	"time"

	"parcel-delivery/constants"
	"parcel-delivery/database"
	"parcel-delivery/logger"
	"parcel-delivery/middleware"
	userModel "parcel-delivery/models/user"
	"parcel-delivery/types"
	userTypes "parcel-delivery/types/user"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserController handles account upserts, role lookups and admin role
// management.
type UserController struct {
	DB             *mongo.Database
	loggerInstance *logger.AsyncLogger
}

func NewUserController(db *mongo.Database, asyncLogger *logger.AsyncLogger) *UserController {
	return &UserController{
		DB:             db,
		loggerInstance: asyncLogger,
	}
}

func (uc *UserController) logAPIRequest(c *fiber.Ctx) {
	uc.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
}

func (uc *UserController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	uc.logAPIRequest(c)
	return result
}

// NewRoleLookup returns a users-collection role lookup for the role-gate
// middleware. Accounts without a stored record resolve to the default role.
func NewRoleLookup(db *mongo.Database) middleware.RoleLookup {
	return func(ctx context.Context, email string) (string, error) {
		var u userModel.User
		err := db.Collection(database.UsersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&u)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return constants.RoleUser, nil
		}
		if err != nil {
			return "", err
		}
		if u.Role == "" {
			return constants.RoleUser, nil
		}
		return u.Role, nil
	}
}

// Upsert creates the account on first sign-in and stamps last_log_in on
// later ones.
func (uc *UserController) Upsert(c *fiber.Ctx) error {
	var req userTypes.UpsertRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	users := uc.DB.Collection(database.UsersCollection)

	nowT := time.Now()
	update := bson.M{
		"$set": bson.M{"last_log_in": nowT},
		"$setOnInsert": bson.M{
			"email":      req.Email,
			"name":       req.Name,
			"role":       constants.RoleUser,
			"created_at": nowT,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u userModel.User
	if err := users.FindOneAndUpdate(c.Context(), bson.M{"email": req.Email}, update, opts).Decode(&u); err != nil {
		logger.Error("Failed to upsert user", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to upsert user",
		})
	}

	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "User upserted successfully",
		Data:    u,
	})
}

// GetRole returns the caller's stored role, defaulting to "user" when no
// account record exists yet.
func (uc *UserController) GetRole(c *fiber.Ctx) error {
	email := middleware.CallerEmail(c)

	lookup := NewRoleLookup(uc.DB)
	role, err := lookup(c.Context(), email)
	if err != nil {
		logger.Error("Failed to resolve user role", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to resolve user role",
		})
	}

	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Role fetched successfully",
		Data:    fiber.Map{"email": email, "role": role},
	})
}

// Search finds accounts whose email contains the query string. Admin only.
func (uc *UserController) Search(c *fiber.Ctx) error {
	query := c.Query("email")
	if query == "" {
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "email query parameter is required",
		})
	}

	filter := bson.M{"email": bson.M{"$regex": query, "$options": "i"}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(20)

	cursor, err := uc.DB.Collection(database.UsersCollection).Find(c.Context(), filter, opts)
	if err != nil {
		logger.Error("Failed to search users", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to search users",
		})
	}

	var results []userModel.User
	if err := cursor.All(c.Context(), &results); err != nil {
		logger.Error("Failed to decode users", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode users",
		})
	}

	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Users fetched successfully",
		Data:    results,
	})
}

// UpdateRole sets the role stored for an email. Admin only.
func (uc *UserController) UpdateRole(c *fiber.Ctx) error {
	email := c.Params("email")

	var req userTypes.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return uc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	result, err := uc.DB.Collection(database.UsersCollection).UpdateOne(
		c.Context(),
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": req.Role}},
	)
	if err != nil {
		logger.Error("Failed to update user role", err)
		return uc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update user role",
		})
	}

	if result.MatchedCount == 0 {
		return uc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "User not found",
		})
	}

	logger.Success("User role updated: " + email + " -> " + req.Role)
	return uc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "User role updated successfully",
	})
}

package payment

import (
	"errors"
	"time"

	"parcel-delivery/constants"
	"parcel-delivery/database"
	paymentGateway "parcel-delivery/httpServices/payment"
	"parcel-delivery/logger"
	"parcel-delivery/middleware"
	parcelModel "parcel-delivery/models/parcel"
	paymentModel "parcel-delivery/models/payment"
	"parcel-delivery/types"
	paymentTypes "parcel-delivery/types/payment"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PaymentController records payment confirmations and delegates charge
// intent creation to the external gateway.
type PaymentController struct {
	DB             *mongo.Database
	gateway        *paymentGateway.PaymentClient
	roleLookup     middleware.RoleLookup
	loggerInstance *logger.AsyncLogger
}

func NewPaymentController(db *mongo.Database, gateway *paymentGateway.PaymentClient, roleLookup middleware.RoleLookup, asyncLogger *logger.AsyncLogger) *PaymentController {
	return &PaymentController{
		DB:             db,
		gateway:        gateway,
		roleLookup:     roleLookup,
		loggerInstance: asyncLogger,
	}
}

func (pc *PaymentController) logAPIRequest(c *fiber.Ctx) {
	pc.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
}

func (pc *PaymentController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c)
	return result
}

// ConfirmPayment marks the parcel paid and appends the payment record. Both
// writes share one session transaction.
func (pc *PaymentController) ConfirmPayment(c *fiber.Ctx) error {
	var req paymentTypes.ConfirmPaymentRequest
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

	parcelID, err := primitive.ObjectIDFromHex(req.ParcelID)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
		})
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	record := paymentModel.Payment{
		ParcelID:      parcelID,
		UserEmail:     req.Email,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaidAt:        paidAt,
	}

	err = database.WithTransaction(c.Context(), pc.DB, func(sc mongo.SessionContext) error {
		parcels := pc.DB.Collection(database.ParcelsCollection)
		result, err := parcels.UpdateByID(sc, parcelID, bson.M{"$set": bson.M{
			"payment_status": parcelModel.PaymentStatusPaid,
			"transaction_id": req.TransactionID,
		}})
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return mongo.ErrNoDocuments
		}

		_, err = pc.DB.Collection(database.PaymentsCollection).InsertOne(sc, record)
		return err
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Parcel not found",
			})
		}
		logger.Error("Failed to confirm payment", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to confirm payment",
		})
	}

	logger.Success("Payment confirmed for parcel " + req.ParcelID)
	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Payment confirmed successfully",
	})
}

// History returns the caller's payment records, newest first. Admins may
// query any email; everyone else is pinned to their own.
func (pc *PaymentController) History(c *fiber.Ctx) error {
	caller := middleware.CallerEmail(c)

	email := c.Query("email")
	if email == "" {
		email = caller
	}

	if email != caller {
		role, err := pc.roleLookup(c.Context(), caller)
		if err != nil || role != constants.RoleAdmin {
			return pc.sendResponseWithLog(c, fiber.StatusForbidden, types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "Payment history is restricted to the account owner",
			})
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "paid_at", Value: -1}})

	cursor, err := pc.DB.Collection(database.PaymentsCollection).Find(c.Context(), bson.M{"user_email": email}, opts)
	if err != nil {
		logger.Error("Failed to fetch payment history", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch payment history",
		})
	}

	results := []paymentModel.Payment{}
	if err := cursor.All(c.Context(), &results); err != nil {
		logger.Error("Failed to decode payment history", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to decode payment history",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment history fetched successfully",
		Data:    results,
	})
}

// CreatePaymentIntent asks the gateway for a new charge intent and returns
// its client secret. Gateway errors surface as internal errors.
func (pc *PaymentController) CreatePaymentIntent(c *fiber.Ctx) error {
	var req paymentTypes.CreateIntentRequest
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

	intent, err := pc.gateway.CreatePaymentIntent(req.AmountInCents, "usd")
	if err != nil {
		logger.Error("Payment gateway error", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: err.Error(),
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment intent created successfully",
		Data:    fiber.Map{"client_secret": intent.ClientSecret},
	})
}

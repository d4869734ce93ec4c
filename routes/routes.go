package routes

import (
	"os"

	"parcel-delivery/constants"
	parcelController "parcel-delivery/controllers/parcel"
	paymentController "parcel-delivery/controllers/payment"
	riderController "parcel-delivery/controllers/rider"
	trackingController "parcel-delivery/controllers/tracking"
	userController "parcel-delivery/controllers/user"
	paymentGateway "parcel-delivery/httpServices/payment"
	"parcel-delivery/logger"
	"parcel-delivery/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupRoutes(app *fiber.App, db *mongo.Database) {
	gateway := paymentGateway.NewClient(os.Getenv("PAYMENT_GATEWAY_URL"), os.Getenv("PAYMENT_SECRET_KEY"))
	asyncLogger := logger.NewAsyncLogger(db)
	roleLookup := userController.NewRoleLookup(db)

	users := userController.NewUserController(db, asyncLogger)
	parcels := parcelController.NewParcelController(db, asyncLogger)
	riders := riderController.NewRiderController(db, asyncLogger)
	trackings := trackingController.NewTrackingController(db, asyncLogger)
	payments := paymentController.NewPaymentController(db, gateway, roleLookup, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	authenticated := middleware.Authenticated()
	adminOnly := middleware.RequireRole(roleLookup, constants.AdminOnly...)
	riderOnly := middleware.RequireRole(roleLookup, constants.RiderOnly...)

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("🚚 Parcel Delivery Server is Running")
	})

	/*=============================================================================
	| User Routes
	===============================================================================*/
	app.Post("/users", authenticated, users.Upsert)
	app.Get("/user/role", authenticated, users.GetRole)
	app.Get("/user/search", authenticated, adminOnly, users.Search)
	app.Patch("/users/:email/role", authenticated, adminOnly, users.UpdateRole)

	/*=============================================================================
	| Parcel Routes
	===============================================================================*/
	app.Get("/parcels", authenticated, parcels.List)
	app.Post("/parcels", authenticated, parcels.Create)
	app.Get("/parcels/:id", authenticated, parcels.Get)
	app.Delete("/parcels/:id", authenticated, parcels.Delete)

	app.Get("/parcel/delivery/status-count", authenticated, parcels.StatusCounts)
	app.Get("/parcel/rider-status-count", authenticated, riderOnly, parcels.RiderStatusCounts)

	app.Get("/rider/parcels", authenticated, riderOnly, parcels.RiderParcels)
	app.Get("/rider/parcels/completed", authenticated, riderOnly, parcels.RiderCompletedParcels)

	/*=============================================================================
	| Assignment & Cashout Workflow
	===============================================================================*/
	app.Patch("/parcels/:id/assign-rider", authenticated, adminOnly, parcels.AssignRider)
	app.Patch("/parcels/:id/status", authenticated, riderOnly, parcels.UpdateDeliveryStatus)
	app.Patch("/parcels/:id/cashout", authenticated, riderOnly, parcels.Cashout)

	/*=============================================================================
	| Rider Routes
	===============================================================================*/
	app.Post("/riders", authenticated, riders.Apply)
	app.Get("/riders/pending", authenticated, adminOnly, riders.ListPending)
	app.Get("/riders/active", authenticated, adminOnly, riders.ListActive)
	app.Patch("/riders/:id/status", authenticated, adminOnly, riders.UpdateStatus)

	app.Post("/rider/earnings/add", authenticated, riderOnly, riders.AddEarnings)
	app.Get("/rider/earnings", authenticated, riderOnly, riders.EarningsSummary)

	/*=============================================================================
	| Tracking Routes
	===============================================================================*/
	app.Post("/trackings", authenticated, trackings.AppendEvent)
	app.Get("/trackings/:trackingId", authenticated, trackings.ListEvents)

	/*=============================================================================
	| Payment Routes
	===============================================================================*/
	app.Get("/payment-history", authenticated, payments.History)
	app.Post("/payments", authenticated, payments.ConfirmPayment)
	app.Post("/create-payment-intent", authenticated, payments.CreatePaymentIntent)
}

// file: internals/features/payment/routes/payment_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	duesController "hostelku_backend/internals/features/payment/dues/controller"
	feeController "hostelku_backend/internals/features/payment/fees/controller"
	paymentController "hostelku_backend/internals/features/payment/payments/controller"
	paymentService "hostelku_backend/internals/features/payment/payments/service"
	"hostelku_backend/internals/middlewares"
)

// PaymentAdminRoutes: fee settings live on the admin side.
func PaymentAdminRoutes(admin fiber.Router, db *gorm.DB) {
	fees := feeController.NewFeeSettingsController(db)

	admin.Get("/payments/fee-settings", fees.Get)
	admin.Put("/payments/fee-settings", fees.Put)
}

// PaymentStudentRoutes: dues, initiation, verification and history for the
// logged-in student. Order-creating endpoints get the stricter limiter.
func PaymentStudentRoutes(student fiber.Router, db *gorm.DB, gateway paymentService.Gateway) {
	dues := duesController.NewDuesController(db)
	payments := paymentController.NewStudentPaymentController(db, gateway)

	p := student.Group("/payments")
	p.Get("/dues", dues.GetMyDues)
	p.Post("/initiate", middlewares.PaymentRateLimiter(), payments.Initiate)
	p.Post("/verify", middlewares.PaymentRateLimiter(), payments.Verify)
	p.Get("/history", payments.History)
	p.Get("/:id/status", payments.CheckStatus)
}

// file: internals/features/payment/payments/controller/student_payment_controller.go
package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	allocationService "hostelku_backend/internals/features/hostel/allocations/service"
	duesModel "hostelku_backend/internals/features/payment/dues/model"
	feeService "hostelku_backend/internals/features/payment/fees/service"
	dto "hostelku_backend/internals/features/payment/payments/dto"
	model "hostelku_backend/internals/features/payment/payments/model"
	service "hostelku_backend/internals/features/payment/payments/service"
	helper "hostelku_backend/internals/helpers"
)

// A PENDING payment younger than this blocks a second order for the same
// month (soft debounce against double-clicks and duplicate tabs).
const pendingDebounce = 5 * time.Minute

// amountTolerance absorbs client-side rounding; anything beyond it is
// treated as a tampered amount.
var amountTolerance = decimal.RequireFromString("0.01")

type StudentPaymentController struct {
	DB        *gorm.DB
	Gateway   service.Gateway
	Validator *validator.Validate
}

func NewStudentPaymentController(db *gorm.DB, gateway service.Gateway) *StudentPaymentController {
	return &StudentPaymentController{DB: db, Gateway: gateway, Validator: validator.New()}
}

// expectedFee re-derives the amount the student owes from the active
// allocation's current fee structure. Client-supplied amounts are never
// trusted.
func (ctl *StudentPaymentController) expectedFee(tenantID, studentID uuid.UUID) (decimal.Decimal, error) {
	allocation, err := allocationService.ActiveAllocationForStudent(ctl.DB, tenantID, studentID)
	if err != nil {
		if errors.Is(err, allocationService.ErrAllocationNotFound) {
			return decimal.Zero, fiber.NewError(fiber.StatusBadRequest, "Student does not have an active room allocation")
		}
		return decimal.Zero, err
	}
	fee, err := feeService.CurrentFeeForRoom(ctl.DB, tenantID, allocation.AllocationRoomID)
	if err != nil {
		if errors.Is(err, feeService.ErrNoActiveFee) {
			return decimal.Zero, fiber.NewError(fiber.StatusBadRequest, "No fee structure configured for the allocated room")
		}
		return decimal.Zero, err
	}
	return fee.FeeStructureMonthlyFee, nil
}

// checkMonthOpen rejects when the month is already paid or an order was
// opened for it within the debounce window.
func checkMonthOpen(tx *gorm.DB, tenantID, studentID uuid.UUID, monthYear string, now time.Time) error {
	var payments []model.PaymentModel
	if err := tx.
		Where("payment_tenant_id = ? AND payment_student_id = ? AND payment_month_year = ?",
			tenantID, studentID, monthYear).
		Find(&payments).Error; err != nil {
		return err
	}
	for _, p := range payments {
		if p.PaymentStatus == model.PaymentStatusPaid {
			return fiber.NewError(fiber.StatusBadRequest, "Payment already completed for this month")
		}
		if p.PaymentStatus == model.PaymentStatusPending && now.Sub(p.PaymentCreatedAt) < pendingDebounce {
			return fiber.NewError(fiber.StatusBadRequest, "Payment already initiated for this month. Please complete it or try again in a few minutes.")
		}
	}
	return nil
}

// ========== Initiate ==========
// POST /api/s/payments/initiate {month_year, amount}
func (ctl *StudentPaymentController) Initiate(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	studentID, err := helper.GetUserID(c)
	if err != nil {
		return err
	}

	var req dto.InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Amount.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "amount is required")
	}
	if _, err := helper.ParseMonthYear(req.MonthYear); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	expected, err := ctl.expectedFee(tenantID, studentID)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		log.Println("[ERROR] expected fee lookup failed:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to initiate payment")
	}
	if req.Amount.Sub(expected).Abs().GreaterThan(amountTolerance) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Invalid amount. Expected %s for this month", expected.StringFixed(2)))
	}

	now := time.Now()
	// fail fast before touching the gateway
	if err := checkMonthOpen(ctl.DB, tenantID, studentID, req.MonthYear, now); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to initiate payment")
	}

	receipt := fmt.Sprintf("DUE-%s-%s", req.MonthYear, studentID.String()[:8])
	order, err := ctl.Gateway.CreateOrder(expected, receipt, map[string]interface{}{
		"tenant_id":  tenantID.String(),
		"student_id": studentID.String(),
		"month_year": req.MonthYear,
	})
	if err != nil {
		log.Println("[ERROR] Gateway order create failed:", err)
		return fiber.NewError(fiber.StatusBadGateway, "Failed to create payment order")
	}

	payment := &model.PaymentModel{
		PaymentTenantID:        tenantID,
		PaymentStudentID:       studentID,
		PaymentMonthYear:       req.MonthYear,
		PaymentAmount:          expected,
		PaymentStatus:          model.PaymentStatusPending,
		PaymentRazorpayOrderID: order.OrderID,
	}

	// re-check under lock, then persist; an abandoned gateway order from a
	// lost race simply expires at the gateway
	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkMonthOpen(helper.LockForUpdate(tx), tenantID, studentID, req.MonthYear, now); err != nil {
			return err
		}
		return tx.Create(payment).Error
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		log.Println("[ERROR] Failed to persist payment:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to initiate payment")
	}

	return helper.JsonCreated(c, "Payment initiated", dto.InitiatePaymentResponse{
		OrderID:   order.OrderID,
		Amount:    expected,
		Currency:  order.Currency,
		PaymentID: payment.PaymentID,
	})
}

// ========== Verify ==========
// POST /api/s/payments/verify
func (ctl *StudentPaymentController) Verify(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}

	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var payment model.PaymentModel
	if err := ctl.DB.
		Where("payment_tenant_id = ? AND payment_razorpay_order_id = ?", tenantID, req.RazorpayOrderID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found for this order")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to verify payment")
	}
	if payment.PaymentStatus == model.PaymentStatusPaid {
		return helper.JsonOK(c, "Payment already verified", fiber.Map{
			"payment_id": payment.PaymentID,
			"status":     payment.PaymentStatus,
		})
	}

	verr := ctl.Gateway.VerifyPaymentComprehensive(
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, payment.PaymentAmount)
	if verr != nil {
		remarks := verr.Error()
		if err := ctl.DB.Model(&model.PaymentModel{}).
			Where("payment_id = ?", payment.PaymentID).
			Updates(map[string]interface{}{
				"payment_status":  model.PaymentStatusFailed,
				"payment_remarks": remarks,
			}).Error; err != nil {
			log.Println("[ERROR] Failed to mark payment FAILED:", err)
		}
		return fiber.NewError(fiber.StatusBadRequest, "Payment verification failed")
	}

	// snapshot the gateway's view of the payment alongside the flip
	var payload []byte
	if gp, ferr := ctl.Gateway.FetchPayment(req.RazorpayPaymentID); ferr == nil {
		payload = gp.Raw
	} else {
		log.Println("[WARN] Gateway payment fetch for snapshot failed:", ferr)
	}

	if err := ctl.markPaid(&payment, req.RazorpayPaymentID, req.RazorpaySignature, payload); err != nil {
		log.Println("[ERROR] Failed to finalize payment:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to finalize payment")
	}

	return helper.JsonOK(c, "Payment verified", fiber.Map{
		"payment_id": payment.PaymentID,
		"status":     model.PaymentStatusPaid,
	})
}

// markPaid flips the Payment and its month's dues together. One
// transaction: a crash can no longer strand a PAID payment next to a
// PENDING due. payload, when present, is the raw gateway payment body
// kept for audit and dispute handling.
func (ctl *StudentPaymentController) markPaid(payment *model.PaymentModel, gatewayPaymentID, signature string, payload []byte) error {
	now := time.Now()
	return ctl.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"payment_status": model.PaymentStatusPaid,
			"payment_date":   now,
		}
		if gatewayPaymentID != "" {
			updates["payment_razorpay_payment_id"] = gatewayPaymentID
			updates["payment_transaction_id"] = gatewayPaymentID
		}
		if signature != "" {
			updates["payment_razorpay_signature"] = signature
		}
		if len(payload) > 0 {
			updates["payment_gateway_payload"] = datatypes.JSON(payload)
		}
		if err := tx.Model(&model.PaymentModel{}).
			Where("payment_id = ?", payment.PaymentID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&duesModel.PaymentDueModel{}).
			Where("payment_due_tenant_id = ? AND payment_due_student_id = ? AND payment_due_month_year = ? AND payment_due_status <> ?",
				payment.PaymentTenantID, payment.PaymentStudentID, payment.PaymentMonthYear, duesModel.PaymentDueStatusPaid).
			Updates(map[string]interface{}{
				"payment_due_status":      duesModel.PaymentDueStatusPaid,
				"payment_due_paid_amount": payment.PaymentAmount,
			}).Error
	})
}

// ========== History ==========
// GET /api/s/payments/history
func (ctl *StudentPaymentController) History(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	studentID, err := helper.GetUserID(c)
	if err != nil {
		return err
	}

	var payments []model.PaymentModel
	if err := ctl.DB.
		Where("payment_tenant_id = ? AND payment_student_id = ?", tenantID, studentID).
		Order("payment_created_at DESC").
		Find(&payments).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payment history")
	}
	return helper.JsonOK(c, "Payment history fetched", payments)
}

// ========== Status poll ==========
// GET /api/s/payments/:id/status
// Reconciliation fallback for the gap a local transaction cannot cover:
// when the verify callback never arrived, truth is re-derived from the
// gateway and both rows self-heal.
func (ctl *StudentPaymentController) CheckStatus(c *fiber.Ctx) error {
	tenantID, err := helper.GetTenantID(c)
	if err != nil {
		return err
	}
	studentID, err := helper.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payment id")
	}

	var payment model.PaymentModel
	if err := ctl.DB.
		Where("payment_id = ? AND payment_tenant_id = ? AND payment_student_id = ?", id, tenantID, studentID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payment")
	}

	if payment.PaymentStatus != model.PaymentStatusPending {
		return helper.JsonOK(c, "Payment status", fiber.Map{
			"payment_id": payment.PaymentID,
			"status":     payment.PaymentStatus,
		})
	}

	var captured *service.GatewayPayment
	if payment.PaymentRazorpayPaymentID != nil {
		gp, err := ctl.Gateway.FetchPayment(*payment.PaymentRazorpayPaymentID)
		if err == nil && gp.Status == "captured" {
			captured = gp
		}
	} else {
		gps, err := ctl.Gateway.OrderPayments(payment.PaymentRazorpayOrderID)
		if err == nil {
			for i := range gps {
				if gps[i].Status == "captured" {
					captured = &gps[i]
					break
				}
			}
		}
	}

	if captured != nil {
		if err := ctl.markPaid(&payment, captured.PaymentID, "", captured.Raw); err != nil {
			log.Println("[ERROR] Self-heal failed:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update payment status")
		}
		payment.PaymentStatus = model.PaymentStatusPaid
	}

	return helper.JsonOK(c, "Payment status", fiber.Map{
		"payment_id": payment.PaymentID,
		"status":     payment.PaymentStatus,
	})
}

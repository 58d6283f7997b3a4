package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	allocationModel "hostelku_backend/internals/features/hostel/allocations/model"
	allocationService "hostelku_backend/internals/features/hostel/allocations/service"
	buildingModel "hostelku_backend/internals/features/hostel/buildings/model"
	floorModel "hostelku_backend/internals/features/hostel/floors/model"
	roomModel "hostelku_backend/internals/features/hostel/rooms/model"
	duesModel "hostelku_backend/internals/features/payment/dues/model"
	feeModel "hostelku_backend/internals/features/payment/fees/model"
	feeService "hostelku_backend/internals/features/payment/fees/service"
	paymentModel "hostelku_backend/internals/features/payment/payments/model"
	"hostelku_backend/internals/features/payment/payments/service"
	paymentRoutes "hostelku_backend/internals/features/payment/routes"
	helper "hostelku_backend/internals/helpers"
)

// fakeGateway satisfies service.Gateway without touching the network.
type fakeGateway struct {
	orderSeq      int
	createErr     error
	verifyErr     error
	payments      map[string]service.GatewayPayment
	orderPayments map[string][]service.GatewayPayment
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		payments:      map[string]service.GatewayPayment{},
		orderPayments: map[string][]service.GatewayPayment{},
	}
}

// capturedPayment builds a captured gateway payment with the raw body
// filled the way the real client does.
func capturedPayment(t *testing.T, paymentID, orderID string, amount int64) service.GatewayPayment {
	t.Helper()
	raw, err := json.Marshal(fiber.Map{
		"id":       paymentID,
		"order_id": orderID,
		"status":   "captured",
		"amount":   amount,
		"currency": "INR",
	})
	require.NoError(t, err)
	return service.GatewayPayment{
		PaymentID: paymentID,
		OrderID:   orderID,
		Status:    "captured",
		Amount:    amount,
		Raw:       raw,
	}
}

func (g *fakeGateway) CreateOrder(amount decimal.Decimal, receipt string, notes map[string]interface{}) (*service.GatewayOrder, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.orderSeq++
	return &service.GatewayOrder{
		OrderID:  fmt.Sprintf("order_test_%d", g.orderSeq),
		Amount:   amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency: "INR",
	}, nil
}

func (g *fakeGateway) VerifyPaymentComprehensive(orderID, paymentID, signature string, expected decimal.Decimal) error {
	return g.verifyErr
}

func (g *fakeGateway) FetchPayment(paymentID string) (*service.GatewayPayment, error) {
	if p, ok := g.payments[paymentID]; ok {
		return &p, nil
	}
	return nil, fmt.Errorf("payment %s not found", paymentID)
}

func (g *fakeGateway) OrderPayments(orderID string) ([]service.GatewayPayment, error) {
	return g.orderPayments[orderID], nil
}

type env struct {
	app       *fiber.App
	db        *gorm.DB
	gateway   *fakeGateway
	tenantID  uuid.UUID
	studentID uuid.UUID
	roomID    uuid.UUID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&buildingModel.BuildingModel{},
		&floorModel.FloorModel{},
		&roomModel.RoomModel{},
		&allocationModel.AllocationModel{},
		&feeModel.FeeStructureModel{},
		&duesModel.PaymentDueModel{},
		&paymentModel.PaymentModel{},
	))

	e := &env{
		db:        db,
		gateway:   newFakeGateway(),
		tenantID:  uuid.New(),
		studentID: uuid.New(),
	}

	building := buildingModel.BuildingModel{
		BuildingTenantID: e.tenantID,
		BuildingName:     "Block A",
		BuildingCode:     "A",
	}
	require.NoError(t, db.Create(&building).Error)
	floor := floorModel.FloorModel{
		FloorTenantID:   e.tenantID,
		FloorBuildingID: building.BuildingID,
		FloorNumber:     1,
	}
	require.NoError(t, db.Create(&floor).Error)
	room := roomModel.RoomModel{
		RoomTenantID:   e.tenantID,
		RoomBuildingID: building.BuildingID,
		RoomFloorID:    floor.FloorID,
		RoomNumber:     "1-01",
		RoomType:       roomModel.RoomTypeDouble,
		RoomCapacity:   2,
		RoomStatus:     roomModel.RoomStatusAvailable,
	}
	require.NoError(t, db.Create(&room).Error)
	e.roomID = room.RoomID

	_, err = feeService.SetRoomFee(db, e.tenantID, e.roomID, decimal.NewFromInt(1200))
	require.NoError(t, err)
	_, err = allocationService.AllocateRoom(db, e.tenantID, e.studentID, e.roomID)
	require.NoError(t, err)

	e.app = fiber.New()
	student := e.app.Group("/api/s", func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, e.studentID.String())
		c.Locals(helper.LocTenantID, e.tenantID.String())
		c.Locals(helper.LocRole, "student")
		return c.Next()
	})
	paymentRoutes.PaymentStudentRoutes(student, db, e.gateway)
	return e
}

func (e *env) request(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func (e *env) paymentCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&paymentModel.PaymentModel{}).Count(&n).Error)
	return n
}

func TestGetDuesEndpoint(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodGet, "/api/s/payments/dues", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dues []duesModel.PaymentDueModel
	decodeData(t, resp, &dues)
	assert.Len(t, dues, 4)
}

func TestInitiateRejectsTamperedAmount(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodPost, "/api/s/payments/initiate", fiber.Map{
		"month_year": "2026-08",
		"amount":     "999",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	// no gateway order, no payment row
	assert.Equal(t, 0, e.gateway.orderSeq)
	assert.EqualValues(t, 0, e.paymentCount(t))
}

func TestInitiateCreatesPendingPayment(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodPost, "/api/s/payments/initiate", fiber.Map{
		"month_year": "2026-08",
		"amount":     "1200",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		OrderID  string `json:"order_id"`
		Currency string `json:"currency"`
	}
	decodeData(t, resp, &out)
	assert.Equal(t, "order_test_1", out.OrderID)
	assert.Equal(t, "INR", out.Currency)

	var payment paymentModel.PaymentModel
	require.NoError(t, e.db.First(&payment, "payment_razorpay_order_id = ?", out.OrderID).Error)
	assert.Equal(t, paymentModel.PaymentStatusPending, payment.PaymentStatus)
	assert.Equal(t, "2026-08", payment.PaymentMonthYear)
}

func TestInitiateDebouncesFreshPendingOrder(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodPost, "/api/s/payments/initiate", fiber.Map{
		"month_year": "2026-08",
		"amount":     "1200",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.request(t, http.MethodPost, "/api/s/payments/initiate", fiber.Map{
		"month_year": "2026-08",
		"amount":     "1200",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.EqualValues(t, 1, e.paymentCount(t))

	// another month is unaffected
	resp = e.request(t, http.MethodPost, "/api/s/payments/initiate", fiber.Map{
		"month_year": "2026-09",
		"amount":     "1200",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestInitiateAllowsRetryAfterStalePending(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodPost, "/api/s/payments/initiate", fiber.Map{
		"month_year": "2026-08",
		"amount":     "1200",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// age the pending row past the debounce window
	require.NoError(t, e.db.Model(&paymentModel.PaymentModel{}).
		Where("payment_tenant_id = ?", e.tenantID).
		Update("payment_created_at", time.Now().Add(-10*time.Minute)).Error)

	resp = e.request(t, http.MethodPost, "/api/s/payments/initiate", fiber.Map{
		"month_year": "2026-08",
		"amount":     "1200",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 2, e.paymentCount(t))
}

func TestVerifySuccessMarksPaymentAndDuesPaid(t *testing.T) {
	e := newEnv(t)

	// generate dues first so the month row exists
	resp := e.request(t, http.MethodGet, "/api/s/payments/dues", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.request(t, http.MethodPost, "/api/s/payments/initiate", fiber.Map{
		"month_year": "2026-08",
		"amount":     "1200",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var initiated struct {
		OrderID string `json:"order_id"`
	}
	decodeData(t, resp, &initiated)

	e.gateway.payments["pay_test_1"] = capturedPayment(t, "pay_test_1", initiated.OrderID, 120000)

	resp = e.request(t, http.MethodPost, "/api/s/payments/verify", fiber.Map{
		"razorpay_order_id":   initiated.OrderID,
		"razorpay_payment_id": "pay_test_1",
		"razorpay_signature":  "sig",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payment paymentModel.PaymentModel
	require.NoError(t, e.db.First(&payment, "payment_razorpay_order_id = ?", initiated.OrderID).Error)
	assert.Equal(t, paymentModel.PaymentStatusPaid, payment.PaymentStatus)
	require.NotNil(t, payment.PaymentRazorpayPaymentID)
	assert.Equal(t, "pay_test_1", *payment.PaymentRazorpayPaymentID)
	assert.NotNil(t, payment.PaymentDate)
	assert.NotEmpty(t, []byte(payment.PaymentGatewayPayload))
	assert.Contains(t, string(payment.PaymentGatewayPayload), "captured")

	var due duesModel.PaymentDueModel
	require.NoError(t, e.db.First(&due,
		"payment_due_student_id = ? AND payment_due_month_year = ?", e.studentID, "2026-08").Error)
	assert.Equal(t, duesModel.PaymentDueStatusPaid, due.PaymentDueStatus)
	require.NotNil(t, due.PaymentDuePaidAmount)
	assert.True(t, due.PaymentDuePaidAmount.Equal(decimal.NewFromInt(1200)))
}

func TestVerifyFailureMarksFailedAndLeavesDues(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodGet, "/api/s/payments/dues", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.request(t, http.MethodPost, "/api/s/payments/initiate", fiber.Map{
		"month_year": "2026-08",
		"amount":     "1200",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var initiated struct {
		OrderID string `json:"order_id"`
	}
	decodeData(t, resp, &initiated)

	e.gateway.verifyErr = service.ErrVerificationFailed
	resp = e.request(t, http.MethodPost, "/api/s/payments/verify", fiber.Map{
		"razorpay_order_id":   initiated.OrderID,
		"razorpay_payment_id": "pay_test_1",
		"razorpay_signature":  "bad",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payment paymentModel.PaymentModel
	require.NoError(t, e.db.First(&payment, "payment_razorpay_order_id = ?", initiated.OrderID).Error)
	assert.Equal(t, paymentModel.PaymentStatusFailed, payment.PaymentStatus)
	require.NotNil(t, payment.PaymentRemarks)

	var due duesModel.PaymentDueModel
	require.NoError(t, e.db.First(&due,
		"payment_due_student_id = ? AND payment_due_month_year = ?", e.studentID, "2026-08").Error)
	assert.Equal(t, duesModel.PaymentDueStatusPending, due.PaymentDueStatus)
}

func TestVerifyUnknownOrder(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodPost, "/api/s/payments/verify", fiber.Map{
		"razorpay_order_id":   "order_nope",
		"razorpay_payment_id": "pay_x",
		"razorpay_signature":  "sig",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckStatusSelfHealsFromGateway(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodGet, "/api/s/payments/dues", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.request(t, http.MethodPost, "/api/s/payments/initiate", fiber.Map{
		"month_year": "2026-08",
		"amount":     "1200",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var initiated struct {
		OrderID   string    `json:"order_id"`
		PaymentID uuid.UUID `json:"payment_id"`
	}
	decodeData(t, resp, &initiated)

	// the callback never arrived, but the gateway captured the payment
	e.gateway.orderPayments[initiated.OrderID] = []service.GatewayPayment{
		capturedPayment(t, "pay_healed", initiated.OrderID, 120000),
	}

	resp = e.request(t, http.MethodGet, "/api/s/payments/"+initiated.PaymentID.String()+"/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Status string `json:"status"`
	}
	decodeData(t, resp, &out)
	assert.Equal(t, paymentModel.PaymentStatusPaid, out.Status)

	var healed paymentModel.PaymentModel
	require.NoError(t, e.db.First(&healed, "payment_id = ?", initiated.PaymentID).Error)
	assert.NotEmpty(t, []byte(healed.PaymentGatewayPayload))

	var due duesModel.PaymentDueModel
	require.NoError(t, e.db.First(&due,
		"payment_due_student_id = ? AND payment_due_month_year = ?", e.studentID, "2026-08").Error)
	assert.Equal(t, duesModel.PaymentDueStatusPaid, due.PaymentDueStatus)
}

func TestPaymentHistory(t *testing.T) {
	e := newEnv(t)

	resp := e.request(t, http.MethodPost, "/api/s/payments/initiate", fiber.Map{
		"month_year": "2026-08",
		"amount":     "1200",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.request(t, http.MethodGet, "/api/s/payments/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var payments []paymentModel.PaymentModel
	decodeData(t, resp, &payments)
	assert.Len(t, payments, 1)
}

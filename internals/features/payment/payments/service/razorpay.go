// file: internals/features/payment/payments/service/razorpay.go
package service

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
)

// GatewayOrder is the slice of the gateway order the app cares about.
type GatewayOrder struct {
	OrderID  string
	Amount   int64 // minor units (paise)
	Currency string
}

// GatewayPayment is the slice of a gateway payment object the app cares
// about. Status values follow Razorpay: created/authorized/captured/failed.
// Raw keeps the full response body for the payload snapshot column.
type GatewayPayment struct {
	PaymentID string
	OrderID   string
	Status    string
	Amount    int64
	Raw       []byte
}

var ErrVerificationFailed = errors.New("payment verification failed")

// Gateway is the payment-gateway collaborator. Order creation, signature
// verification and payment lookup are delegated here; controllers only see
// this interface so tests can swap in a fake.
type Gateway interface {
	CreateOrder(amount decimal.Decimal, receipt string, notes map[string]interface{}) (*GatewayOrder, error)
	// VerifyPaymentComprehensive checks the callback signature, then the
	// captured status and amount of the payment at the gateway.
	VerifyPaymentComprehensive(orderID, paymentID, signature string, expected decimal.Decimal) error
	FetchPayment(paymentID string) (*GatewayPayment, error)
	OrderPayments(orderID string) ([]GatewayPayment, error)
}

type razorpayGateway struct {
	client    *razorpay.Client
	keySecret string
}

func NewRazorpayGateway(keyID, keySecret string) Gateway {
	return &razorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

// toPaise converts a rupee decimal to Razorpay minor units.
func toPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (g *razorpayGateway) CreateOrder(amount decimal.Decimal, receipt string, notes map[string]interface{}) (*GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":   toPaise(amount),
		"currency": "INR",
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay order create: missing order id")
	}
	return &GatewayOrder{
		OrderID:  id,
		Amount:   toPaise(amount),
		Currency: "INR",
	}, nil
}

func (g *razorpayGateway) VerifyPaymentComprehensive(orderID, paymentID, signature string, expected decimal.Decimal) error {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	if !utils.VerifyPaymentSignature(params, signature, g.keySecret) {
		return fmt.Errorf("%w: invalid signature", ErrVerificationFailed)
	}

	payment, err := g.FetchPayment(paymentID)
	if err != nil {
		return err
	}
	if payment.OrderID != orderID {
		return fmt.Errorf("%w: payment does not belong to order", ErrVerificationFailed)
	}
	if payment.Status != "captured" {
		return fmt.Errorf("%w: payment status %q", ErrVerificationFailed, payment.Status)
	}
	if payment.Amount != toPaise(expected) {
		return fmt.Errorf("%w: amount mismatch", ErrVerificationFailed)
	}
	return nil
}

func (g *razorpayGateway) FetchPayment(paymentID string) (*GatewayPayment, error) {
	body, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment fetch: %w", err)
	}
	return paymentFromBody(body), nil
}

func (g *razorpayGateway) OrderPayments(orderID string) ([]GatewayPayment, error) {
	body, err := g.client.Order.Payments(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order payments: %w", err)
	}
	items, _ := body["items"].([]interface{})
	out := make([]GatewayPayment, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]interface{}); ok {
			out = append(out, *paymentFromBody(m))
		}
	}
	return out, nil
}

func paymentFromBody(body map[string]interface{}) *GatewayPayment {
	p := &GatewayPayment{}
	p.PaymentID, _ = body["id"].(string)
	p.OrderID, _ = body["order_id"].(string)
	p.Status, _ = body["status"].(string)
	switch v := body["amount"].(type) {
	case float64:
		p.Amount = int64(v)
	case int64:
		p.Amount = v
	}
	if raw, err := sonic.Marshal(body); err == nil {
		p.Raw = raw
	}
	return p
}

package order

import (
	"errors"
	"strings"
	"time"

	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/menu"
	"github.com/DhikraCh/resto-management/internal/payment"
	"github.com/shopspring/decimal"
)

// Errors returned by Order.
var (
	ErrInvalidQuantity   = errors.New("quantity must be >= 1")
	ErrNoPaymentStrategy = errors.New("no payment strategy assigned")
	ErrEmptyOrder        = errors.New("order has no lines")
)

// legacyOnsiteText is how old history files spelled an on-site label.
const legacyOnsiteText = "sur place"

// Line is a menu item with a quantity. Duplicate items are separate lines.
type Line struct {
	Item     menu.Item
	Quantity int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is a cart that becomes a paid record once settled.
type Order struct {
	id          int
	lines       []Line
	createdAt   time.Time
	processedAt time.Time

	strategy payment.Strategy
	paid     bool

	label     string
	method    enum.PaymentMethod
	reference string
	labelSet  bool

	status enum.OrderStatus
}

func New(id int, createdAt time.Time) *Order {
	return &Order{
		id:        id,
		createdAt: createdAt,
		status:    enum.OrderStatusPending,
	}
}

func (o *Order) ID() int              { return o.id }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// AddLine appends a line. Quantities below 1 are rejected.
func (o *Order) AddLine(item menu.Item, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	o.lines = append(o.lines, Line{Item: item, Quantity: qty})
	return nil
}

// RemoveLine drops the line at index. Out of range indexes are ignored.
func (o *Order) RemoveLine(index int) {
	if index < 0 || index >= len(o.lines) {
		return
	}
	o.lines = append(o.lines[:index], o.lines[index+1:]...)
}

func (o *Order) Lines() []Line {
	return append([]Line(nil), o.lines...)
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// AssignPaymentStrategy replaces any previously assigned strategy.
func (o *Order) AssignPaymentStrategy(s payment.Strategy) {
	o.strategy = s
}

func (o *Order) PaymentStrategy() (payment.Strategy, bool) {
	return o.strategy, !o.strategy.IsZero()
}

// Settle charges the total through the assigned strategy. On failure the
// order is left untouched.
func (o *Order) Settle() error {
	if o.strategy.IsZero() {
		return ErrNoPaymentStrategy
	}
	if len(o.lines) == 0 {
		return ErrEmptyOrder
	}
	label, err := o.strategy.Settle(o.Total())
	if err != nil {
		return err
	}
	o.paid = true
	if !o.labelSet {
		o.label = string(label)
		o.method = o.strategy.Method()
		o.reference = o.strategy.MaskedDetails()
		o.labelSet = true
	}
	return nil
}

func (o *Order) IsPaid() bool { return o.paid }

func (o *Order) PaymentLabel() string { return o.label }

// PaymentMethod is the variant tag, empty for records that predate it.
func (o *Order) PaymentMethod() enum.PaymentMethod { return o.method }

// PaymentReference is the masked card or wallet detail kept for the history.
func (o *Order) PaymentReference() string { return o.reference }

func (o *Order) IsOnsitePayment() bool {
	if o.method != "" {
		return o.method == enum.PaymentMethodOnsite
	}
	if o.label == string(enum.PaymentLabelOnsite) {
		return true
	}
	return strings.Contains(strings.ToLower(o.label), legacyOnsiteText)
}

// RestorePayment pins the label and method read back from disk so that a
// later Settle keeps them.
func (o *Order) RestorePayment(label string, method enum.PaymentMethod) {
	o.label = label
	o.method = method
	o.labelSet = true
}

func (o *Order) SetPaymentReference(ref string) { o.reference = ref }

func (o *Order) SetStatus(s enum.OrderStatus) { o.status = s }

func (o *Order) SetProcessedAt(at time.Time) { o.processedAt = at }

// Validate marks the order VALIDATED. There is no guard on the current status.
func (o *Order) Validate(at time.Time) {
	o.status = enum.OrderStatusValidated
	o.processedAt = at
}

// AssignDelivery marks the order DELIVERED. There is no guard on the current status.
func (o *Order) AssignDelivery(at time.Time) {
	o.status = enum.OrderStatusDelivered
	o.processedAt = at
}

func (o *Order) Status() enum.OrderStatus { return o.status }

func (o *Order) IsPending() bool   { return o.status == enum.OrderStatusPending }
func (o *Order) IsValidated() bool { return o.status == enum.OrderStatusValidated }
func (o *Order) IsDelivered() bool { return o.status == enum.OrderStatusDelivered }

// ProcessedAt reports when the order was last validated or delivered.
func (o *Order) ProcessedAt() (time.Time, bool) {
	return o.processedAt, !o.processedAt.IsZero()
}

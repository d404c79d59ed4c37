package service

import (
	"fmt"
	"time"

	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/menu"
	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/DhikraCh/resto-management/internal/payment"
	"github.com/DhikraCh/resto-management/internal/session"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OrderController drives the cart of the current session.
type OrderController struct {
	restaurant *Restaurant
	session    *session.Session
	clients    ClientOrderIndex
	events     Publisher
	seq        *order.Sequence
	now        func() time.Time
	log        *logrus.Logger

	current *order.Order
}

func NewOrderController(
	restaurant *Restaurant,
	sess *session.Session,
	clients ClientOrderIndex,
	events Publisher,
	seq *order.Sequence,
	log *logrus.Logger,
) *OrderController {
	return &OrderController{
		restaurant: restaurant,
		session:    sess,
		clients:    clients,
		events:     events,
		seq:        seq,
		now:        time.Now,
		log:        log,
	}
}

// CreateNewOrder discards any cart in progress and starts an empty one.
func (c *OrderController) CreateNewOrder() *order.Order {
	c.current = order.New(c.seq.Next(), c.now())
	return c.current
}

func (c *OrderController) CurrentOrder() (*order.Order, bool) {
	return c.current, c.current != nil
}

func (c *OrderController) HasCurrentOrder() bool { return c.current != nil }

// AddItemToOrder starts a cart if needed.
func (c *OrderController) AddItemToOrder(item menu.Item, qty int) error {
	if c.current == nil {
		c.CreateNewOrder()
	}
	return c.current.AddLine(item, qty)
}

func (c *OrderController) RemoveItemFromOrder(index int) {
	if c.current != nil {
		c.current.RemoveLine(index)
	}
}

func (c *OrderController) CurrentOrderTotal() decimal.Decimal {
	if c.current == nil {
		return decimal.Zero
	}
	return c.current.Total()
}

// SetPaymentMethod assigns the strategy named by code (CASH, CARD, MOBILE,
// ONSITE). An unknown code leaves the cart unchanged.
func (c *OrderController) SetPaymentMethod(code, details string) error {
	if c.current == nil {
		return ErrNoCurrentOrder
	}
	s, err := payment.FromCode(code, details)
	if err != nil {
		return fmt.Errorf("payment method %q: %w", code, err)
	}
	c.current.AssignPaymentStrategy(s)
	return nil
}

// ValidateAndPayOrder settles the cart and records the paid order. When
// settling fails the cart is kept as it was.
func (c *OrderController) ValidateAndPayOrder() (*order.Order, error) {
	o := c.current
	if o == nil || len(o.Lines()) == 0 {
		return nil, ErrEmptyCart
	}
	if err := o.Settle(); err != nil {
		return nil, fmt.Errorf("settle order %d: %w", o.ID(), err)
	}

	c.restaurant.AddOrder(o)
	c.events.Publish(enum.EventOrderValidated, o)

	if c.session.IsClient() {
		email := c.session.CurrentEmail()
		if err := c.clients.Save(email, o); err != nil {
			c.log.WithError(err).WithField("client", email).Error("could not save client history")
		}
		c.session.AddOrderToHistory(o)
	}
	c.log.WithFields(logrus.Fields{
		"order_id": o.ID(),
		"total":    o.Total().String(),
		"payment":  o.PaymentLabel(),
	}).Info("order paid")

	c.current = nil
	return o, nil
}

// OrderHistory is the client's own history for a client session and every
// order of the restaurant otherwise.
func (c *OrderController) OrderHistory() []*order.Order {
	if !c.session.IsClient() {
		return c.restaurant.Orders()
	}
	email := c.session.CurrentEmail()
	orders, err := c.clients.Load(email)
	if err != nil {
		c.log.WithError(err).WithField("client", email).Error("could not load client history")
		return c.session.History()
	}
	return orders
}

func (c *OrderController) Menu() *menu.Catalog { return c.restaurant.Catalog() }

func (c *OrderController) AllMenuItems() []menu.Item { return c.restaurant.Catalog().Items() }

func (c *OrderController) MenuCategories() []*menu.Category {
	return c.restaurant.Catalog().Categories()
}

// FindMenuItem resolves a typed name, exactly first and then by keywords.
func (c *OrderController) FindMenuItem(text string) (menu.Item, error) {
	cat := c.restaurant.Catalog()
	if it, ok := cat.Find(text); ok {
		return it, nil
	}
	res := cat.Match(text)
	switch res.Status {
	case menu.Matched:
		return *res.Item, nil
	case menu.Ambiguous:
		names := make([]string, len(res.Candidates))
		for i, it := range res.Candidates {
			names[i] = it.Name
		}
		return menu.Item{}, fmt.Errorf("%q could be %v: %w", text, names, ErrAmbiguousItem)
	}
	return menu.Item{}, fmt.Errorf("%q: %w", text, ErrItemNotFound)
}

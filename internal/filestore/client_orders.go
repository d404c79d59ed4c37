package filestore

import (
	"fmt"
	"time"

	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/sirupsen/logrus"
)

// ClientOrderIndex keeps each client's paid orders in client_orders.txt.
// A block belongs to the closest CLIENT line above it.
type ClientOrderIndex struct {
	path string
	log  *logrus.Logger
	now  func() time.Time
}

func NewClientOrderIndex(path string, log *logrus.Logger) *ClientOrderIndex {
	return &ClientOrderIndex{path: path, log: log, now: time.Now}
}

// Save appends the order under email. Unpaid orders and empty emails are
// ignored.
func (c *ClientOrderIndex) Save(email string, o *order.Order) error {
	if email == "" || !o.IsPaid() {
		return nil
	}
	if err := AppendLines(c.path, EncodeClientOrder(email, o)); err != nil {
		return fmt.Errorf("save order %d for %s: %w", o.ID(), email, err)
	}
	c.log.WithFields(logrus.Fields{"client": email, "order_id": o.ID()}).Debug("client order saved")
	return nil
}

// Load returns the orders of one client, in file order.
func (c *ClientOrderIndex) Load(email string) ([]*order.Order, error) {
	dec, err := c.decode()
	if err != nil {
		return nil, err
	}
	var orders []*order.Order
	for _, r := range dec.Records {
		if r.Client == email {
			orders = append(orders, r.Order)
		}
	}
	return orders, nil
}

// LoadAll groups every order by client. Blocks that appear before any
// CLIENT line are dropped.
func (c *ClientOrderIndex) LoadAll() (map[string][]*order.Order, error) {
	dec, err := c.decode()
	if err != nil {
		return nil, err
	}
	all := make(map[string][]*order.Order)
	for _, r := range dec.Records {
		if r.Client == "" {
			c.log.WithField("order_id", r.Order.ID()).Warn("client order without owner")
			continue
		}
		all[r.Client] = append(all[r.Client], r.Order)
	}
	return all, nil
}

func (c *ClientOrderIndex) decode() (Decoded, error) {
	lines, err := ReadLines(c.path)
	if err != nil {
		return Decoded{}, fmt.Errorf("load client orders: %w", err)
	}
	dec := Decode(lines, c.now)
	logWarnings(c.log, c.path, dec.Warnings)
	return dec, nil
}

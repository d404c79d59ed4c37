package filestore

import (
	"fmt"
	"time"

	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/sirupsen/logrus"
)

// OrderStore persists paid orders to orders.txt.
type OrderStore struct {
	path string
	log  *logrus.Logger
	now  func() time.Time
}

func NewOrderStore(path string, log *logrus.Logger) *OrderStore {
	return &OrderStore{path: path, log: log, now: time.Now}
}

func (s *OrderStore) Path() string { return s.path }

// Save rewrites the whole file with the paid orders. Unpaid orders are
// dropped.
func (s *OrderStore) Save(orders []*order.Order) error {
	var lines []string
	paid := 0
	for _, o := range orders {
		if !o.IsPaid() {
			continue
		}
		lines = append(lines, EncodeOrder(o)...)
		paid++
	}
	if err := WriteLines(s.path, lines); err != nil {
		return fmt.Errorf("save orders: %w", err)
	}
	s.log.WithFields(logrus.Fields{"path": s.path, "orders": paid}).Debug("orders saved")
	return nil
}

// Append adds one paid order at the end of the file. Unpaid orders are
// ignored.
func (s *OrderStore) Append(o *order.Order) error {
	if !o.IsPaid() {
		return nil
	}
	if err := AppendLines(s.path, EncodeOrder(o)); err != nil {
		return fmt.Errorf("append order %d: %w", o.ID(), err)
	}
	s.log.WithFields(logrus.Fields{"path": s.path, "order_id": o.ID()}).Debug("order appended")
	return nil
}

// Load reads every order back. Malformed lines are logged and skipped.
func (s *OrderStore) Load() ([]*order.Order, error) {
	lines, err := ReadLines(s.path)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	dec := Decode(lines, s.now)
	logWarnings(s.log, s.path, dec.Warnings)

	orders := make([]*order.Order, 0, len(dec.Records))
	for _, r := range dec.Records {
		orders = append(orders, r.Order)
	}
	s.log.WithFields(logrus.Fields{"path": s.path, "orders": len(orders)}).Debug("orders loaded")
	return orders, nil
}

func logWarnings(log *logrus.Logger, path string, warnings []string) {
	for _, w := range warnings {
		log.WithField("path", path).Warn(w)
	}
}

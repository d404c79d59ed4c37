package filestore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Delivery is one "order delivered" notice left by a courier.
type Delivery struct {
	At      time.Time
	Courier string
	OrderID int
}

func (d Delivery) String() string {
	return fmt.Sprintf("[%s] %s a livré la commande #%d", d.At.Format(DateLayout), d.Courier, d.OrderID)
}

// DeliveryLog is the append-only delivery_notifications.txt.
type DeliveryLog struct {
	path string
	log  *logrus.Logger
}

func NewDeliveryLog(path string, log *logrus.Logger) *DeliveryLog {
	return &DeliveryLog{path: path, log: log}
}

func (d *DeliveryLog) Add(courier string, orderID int, at time.Time) error {
	line := at.Format(DateLayout) + "|" + clean(courier) + "|" + strconv.Itoa(orderID)
	if err := AppendLines(d.path, []string{line}); err != nil {
		return fmt.Errorf("add delivery notification: %w", err)
	}
	d.log.WithFields(logrus.Fields{"courier": courier, "order_id": orderID}).Info("delivery recorded")
	return nil
}

// List returns the notices in file order, skipping malformed lines.
func (d *DeliveryLog) List() ([]Delivery, error) {
	lines, err := ReadLines(d.path)
	if err != nil {
		return nil, fmt.Errorf("list delivery notifications: %w", err)
	}

	var out []Delivery
	for i, line := range lines {
		parts := strings.Split(strings.TrimRight(line, "\r"), "|")
		if len(parts) != 3 {
			if strings.TrimSpace(line) != "" {
				d.log.WithField("path", d.path).Warnf("line %d: want 3 fields, got %d", i+1, len(parts))
			}
			continue
		}
		at, err := parseDate(parts[0])
		if err != nil {
			d.log.WithField("path", d.path).Warnf("line %d: invalid time %q", i+1, parts[0])
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			d.log.WithField("path", d.path).Warnf("line %d: invalid order id %q", i+1, parts[2])
			continue
		}
		out = append(out, Delivery{At: at, Courier: parts[1], OrderID: id})
	}
	return out, nil
}

// Clear truncates the log.
func (d *DeliveryLog) Clear() error {
	if err := WriteLines(d.path, nil); err != nil {
		return fmt.Errorf("clear delivery notifications: %w", err)
	}
	return nil
}

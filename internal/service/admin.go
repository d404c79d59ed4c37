package service

import (
	"fmt"
	"time"

	"github.com/DhikraCh/resto-management/internal/account"
	"github.com/DhikraCh/resto-management/internal/filestore"
	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/sirupsen/logrus"
)

// AdminService backs the admin and courier dashboards.
type AdminService struct {
	restaurant *Restaurant
	users      UserDirectory
	clients    ClientOrderIndex
	deliveries DeliveryLog
	now        func() time.Time
	log        *logrus.Logger
}

func NewAdminService(restaurant *Restaurant, users UserDirectory, clients ClientOrderIndex, deliveries DeliveryLog, log *logrus.Logger) *AdminService {
	return &AdminService{
		restaurant: restaurant,
		users:      users,
		clients:    clients,
		deliveries: deliveries,
		now:        time.Now,
		log:        log,
	}
}

// PendingOrders are the paid orders nobody has validated yet.
func (s *AdminService) PendingOrders() []*order.Order {
	return s.filter((*order.Order).IsPending)
}

// DeliveryOrders are the orders handed to couriers.
func (s *AdminService) DeliveryOrders() []*order.Order {
	return s.filter((*order.Order).IsDelivered)
}

func (s *AdminService) filter(keep func(*order.Order) bool) []*order.Order {
	var out []*order.Order
	for _, o := range s.restaurant.Orders() {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// ValidateOrder marks the order ready for pickup and rewrites the order file.
func (s *AdminService) ValidateOrder(id int) error {
	o, ok := s.restaurant.FindOrder(id)
	if !ok {
		return fmt.Errorf("order %d: %w", id, ErrOrderNotFound)
	}
	o.Validate(s.now())
	s.log.WithField("order_id", id).Info("order validated")
	return s.restaurant.SaveAll()
}

// AssignDelivery hands the order to the couriers and rewrites the order file.
func (s *AdminService) AssignDelivery(id int) error {
	o, ok := s.restaurant.FindOrder(id)
	if !ok {
		return fmt.Errorf("order %d: %w", id, ErrOrderNotFound)
	}
	o.AssignDelivery(s.now())
	s.log.WithField("order_id", id).Info("order sent for delivery")
	return s.restaurant.SaveAll()
}

// MarkDelivered records that courier dropped the order off.
func (s *AdminService) MarkDelivered(courier string, id int) error {
	if _, ok := s.restaurant.FindOrder(id); !ok {
		return fmt.Errorf("order %d: %w", id, ErrOrderNotFound)
	}
	if err := s.deliveries.Add(courier, id, s.now()); err != nil {
		s.log.WithError(err).WithField("order_id", id).Error("could not record delivery")
		return err
	}
	return nil
}

func (s *AdminService) Notifications() []filestore.Delivery {
	list, err := s.deliveries.List()
	if err != nil {
		s.log.WithError(err).Error("could not read delivery notifications")
		return nil
	}
	return list
}

func (s *AdminService) ClearNotifications() error {
	if err := s.deliveries.Clear(); err != nil {
		s.log.WithError(err).Error("could not clear delivery notifications")
		return err
	}
	return nil
}

func (s *AdminService) PendingUsers() []account.User { return s.users.Pending() }

func (s *AdminService) Users() []account.User { return s.users.All() }

func (s *AdminService) ApproveUser(email string) error {
	if err := s.users.Approve(email); err != nil {
		return fmt.Errorf("approve %s: %w", email, err)
	}
	return nil
}

func (s *AdminService) RejectUser(email string) error {
	if err := s.users.Reject(email); err != nil {
		return fmt.Errorf("reject %s: %w", email, err)
	}
	return nil
}

// ClientHistories groups the client index by email.
func (s *AdminService) ClientHistories() map[string][]*order.Order {
	all, err := s.clients.LoadAll()
	if err != nil {
		s.log.WithError(err).Error("could not load client histories")
		return map[string][]*order.Order{}
	}
	return all
}

func (s *AdminService) Statistics() Statistics {
	return ComputeStatistics(s.restaurant.Orders())
}

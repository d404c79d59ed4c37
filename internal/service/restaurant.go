package service

import (
	"errors"
	"sync"
	"time"

	"github.com/DhikraCh/resto-management/internal/account"
	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/filestore"
	"github.com/DhikraCh/resto-management/internal/menu"
	"github.com/DhikraCh/resto-management/internal/notify"
	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/sirupsen/logrus"
)

// Errors returned by the services.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNoCurrentOrder = errors.New("no order in progress")
	ErrOrderNotFound  = errors.New("order not found")
	ErrItemNotFound   = errors.New("menu item not found")
	ErrAmbiguousItem  = errors.New("menu item is ambiguous")
	ErrLoginFailed    = errors.New("login failed")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrForbidden      = errors.New("not allowed for this role")
)

// OrderStore defines the persistence the restaurant needs.
// Satisfied by *filestore.OrderStore.
type OrderStore interface {
	Save(orders []*order.Order) error
	Append(o *order.Order) error
	Load() ([]*order.Order, error)
}

// ClientOrderIndex defines the per-client history.
// Satisfied by *filestore.ClientOrderIndex.
type ClientOrderIndex interface {
	Save(email string, o *order.Order) error
	Load(email string) ([]*order.Order, error)
	LoadAll() (map[string][]*order.Order, error)
}

// DeliveryLog defines the courier notices. Satisfied by *filestore.DeliveryLog.
type DeliveryLog interface {
	Add(courier string, orderID int, at time.Time) error
	List() ([]filestore.Delivery, error)
	Clear() error
}

// UserDirectory defines the account store. Satisfied by *account.Directory.
type UserDirectory interface {
	Register(email, password string, role enum.UserRole) error
	Login(email, password string) (account.User, error)
	Approve(email string) error
	Reject(email string) error
	Pending() []account.User
	All() []account.User
	Get(email string) (account.User, bool)
}

// AdminRegistry defines the older admin list. Satisfied by *account.AdminRegistry.
type AdminRegistry interface {
	Login(email, password string) error
	Exists(email string) bool
}

// Publisher defines the event fan-out. Satisfied by *notify.Hub.
type Publisher interface {
	Publish(eventType string, o *order.Order) notify.Event
}

// Restaurant owns the menu and the list of paid orders of this process.
type Restaurant struct {
	mu      sync.RWMutex
	catalog *menu.Catalog
	orders  []*order.Order
	store   OrderStore
	log     *logrus.Logger
}

// NewRestaurant loads the saved orders. A load failure is logged and the
// restaurant starts empty.
func NewRestaurant(catalog *menu.Catalog, store OrderStore, log *logrus.Logger) *Restaurant {
	r := &Restaurant{catalog: catalog, store: store, log: log}

	orders, err := store.Load()
	if err != nil {
		log.WithError(err).Error("could not load orders, starting empty")
		return r
	}
	r.orders = orders
	log.WithField("orders", len(orders)).Info("orders loaded")
	return r
}

func (r *Restaurant) Catalog() *menu.Catalog { return r.catalog }

// AddOrder keeps the order in memory and appends it to the store.
func (r *Restaurant) AddOrder(o *order.Order) {
	r.mu.Lock()
	r.orders = append(r.orders, o)
	r.mu.Unlock()

	if err := r.store.Append(o); err != nil {
		r.log.WithError(err).WithField("order_id", o.ID()).Error("could not persist order")
	}
}

// SaveAll rewrites the store from memory.
func (r *Restaurant) SaveAll() error {
	r.mu.RLock()
	orders := append([]*order.Order(nil), r.orders...)
	r.mu.RUnlock()

	if err := r.store.Save(orders); err != nil {
		r.log.WithError(err).Error("could not save orders")
		return err
	}
	return nil
}

func (r *Restaurant) Orders() []*order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*order.Order(nil), r.orders...)
}

// FindOrder returns the most recent order with id. Ids are not unique
// across restarts.
func (r *Restaurant) FindOrder(id int) (*order.Order, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].ID() == id {
			return r.orders[i], true
		}
	}
	return nil, false
}

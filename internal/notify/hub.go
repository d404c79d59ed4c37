package notify

import (
	"sync"
	"time"

	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event is what observers receive when something happens to an order
type Event struct {
	ID    uuid.UUID
	Type  string
	Order *order.Order
	At    time.Time
}

// Handler reacts to an event. It runs on the publisher's goroutine.
type Handler func(Event)

type subscriber struct {
	id      uuid.UUID
	name    string
	handler Handler
}

// Hub fans events out to its subscribers, in subscription order, before
// Publish returns.
type Hub struct {
	mu   sync.RWMutex
	subs []subscriber
	log  *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{log: log}
}

// Subscribe registers h and returns the id to pass to Unsubscribe.
func (h *Hub) Subscribe(name string, handler Handler) uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.New()
	h.subs = append(h.subs, subscriber{id: id, name: name, handler: handler})
	return id
}

func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, s := range h.subs {
		if s.id == id {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish stamps the event and calls every subscriber. A handler that
// panics is logged and does not stop the others.
func (h *Hub) Publish(eventType string, o *order.Order) Event {
	ev := Event{ID: uuid.New(), Type: eventType, Order: o, At: time.Now()}

	// Snapshot so handlers may subscribe or unsubscribe.
	h.mu.RLock()
	subs := append([]subscriber(nil), h.subs...)
	h.mu.RUnlock()

	for _, s := range subs {
		h.deliver(s, ev)
	}
	return ev
}

func (h *Hub) deliver(s subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			h.log.WithFields(logrus.Fields{
				"subscriber": s.name,
				"event":      ev.Type,
				"event_id":   ev.ID,
			}).Errorf("observer panicked: %v", r)
		}
	}()
	s.handler(ev)
}

// KitchenObserver logs every validated order for the kitchen.
func KitchenObserver(log *logrus.Logger) Handler {
	return func(ev Event) {
		if ev.Type != enum.EventOrderValidated || ev.Order == nil {
			return
		}
		log.WithFields(logrus.Fields{
			"event_id": ev.ID,
			"order_id": ev.Order.ID(),
			"lines":    len(ev.Order.Lines()),
			"total":    ev.Order.Total().String(),
			"payment":  ev.Order.PaymentLabel(),
		}).Info("new order for the kitchen")
	}
}

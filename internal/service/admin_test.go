package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/DhikraCh/resto-management/internal/account"
	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/filestore"
	"github.com/DhikraCh/resto-management/internal/logging"
	"github.com/DhikraCh/resto-management/internal/menu"
	"github.com/DhikraCh/resto-management/internal/notify"
	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/DhikraCh/resto-management/internal/payment"
	"github.com/DhikraCh/resto-management/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restaurantEnv wires the real file stores in a temporary directory.
type restaurantEnv struct {
	dir        string
	restaurant *Restaurant
	ctrl       *OrderController
	admin      *AdminService
	session    *session.Session
	users      *account.Directory
	orders     *filestore.OrderStore
	clients    *filestore.ClientOrderIndex
}

func newRestaurantEnv(t *testing.T) restaurantEnv {
	t.Helper()
	dir := t.TempDir()
	log := logging.Discard()

	users, err := account.NewDirectory(filepath.Join(dir, "users.txt"), log)
	require.NoError(t, err)
	orders := filestore.NewOrderStore(filepath.Join(dir, "orders.txt"), log)
	clients := filestore.NewClientOrderIndex(filepath.Join(dir, "client_orders.txt"), log)
	deliveries := filestore.NewDeliveryLog(filepath.Join(dir, "delivery_notifications.txt"), log)

	sess := session.New()
	r := NewRestaurant(menu.Default(), orders, log)
	return restaurantEnv{
		dir:        dir,
		restaurant: r,
		ctrl:       NewOrderController(r, sess, clients, notify.NewHub(log), order.NewSequence(order.FirstID), log),
		admin:      NewAdminService(r, users, clients, deliveries, log),
		session:    sess,
		users:      users,
		orders:     orders,
		clients:    clients,
	}
}

func (e restaurantEnv) placeOrder(t *testing.T, method string, lines map[string]int) *order.Order {
	t.Helper()
	for name, qty := range lines {
		require.NoError(t, e.ctrl.AddItemToOrder(item(t, e.ctrl, name), qty))
	}
	require.NoError(t, e.ctrl.SetPaymentMethod(method, ""))
	o, err := e.ctrl.ValidateAndPayOrder()
	require.NoError(t, err)
	return o
}

func TestClientIndexKeepsEachClientsOrders(t *testing.T) {
	env := newRestaurantEnv(t)

	env.session.Login(account.User{Email: "a@gmail.com", Role: enum.UserRoleClient, Status: enum.UserStatusApproved})
	env.placeOrder(t, "CASH", map[string]int{"Couscous": 2, "Baklawa": 1})
	env.placeOrder(t, "ONSITE", map[string]int{"Chorba": 1})

	env.session.Login(account.User{Email: "b@gmail.com", Role: enum.UserRoleClient, Status: enum.UserStatusApproved})
	env.placeOrder(t, "CARD", map[string]int{"Café": 3})

	env.session.Logout()
	env.placeOrder(t, "CASH", map[string]int{"Zlabia": 1})

	mine, err := env.clients.Load("a@gmail.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].Total().Equal(decimal.NewFromInt(2000)))
	assert.True(t, mine[1].IsOnsitePayment())

	histories := env.admin.ClientHistories()
	assert.Len(t, histories, 2)
	assert.Len(t, histories["b@gmail.com"], 1)

	all, err := env.orders.Load()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestValidateAndAssignDeliveryPersist(t *testing.T) {
	env := newRestaurantEnv(t)
	first := env.placeOrder(t, "CASH", map[string]int{"Tajine": 1})
	second := env.placeOrder(t, "ONSITE", map[string]int{"Rechta": 1})

	assert.Len(t, env.admin.PendingOrders(), 2)

	require.NoError(t, env.admin.ValidateOrder(first.ID()))
	require.NoError(t, env.admin.AssignDelivery(second.ID()))
	assert.ErrorIs(t, env.admin.ValidateOrder(4242), ErrOrderNotFound)

	assert.Empty(t, env.admin.PendingOrders())
	require.Len(t, env.admin.DeliveryOrders(), 1)
	assert.Equal(t, second.ID(), env.admin.DeliveryOrders()[0].ID())

	reloaded, err := env.orders.Load()
	require.NoError(t, err)
	require.Len(t, reloaded, 2)
	assert.True(t, reloaded[0].IsValidated())
	assert.True(t, reloaded[1].IsDelivered())
	assert.Equal(t, "ONSITE", reloaded[1].PaymentLabel())
	_, ok := reloaded[0].ProcessedAt()
	assert.True(t, ok)
}

func TestDeliveryNotifications(t *testing.T) {
	env := newRestaurantEnv(t)
	o := env.placeOrder(t, "CASH", map[string]int{"Couscous": 1})
	require.NoError(t, env.admin.AssignDelivery(o.ID()))

	require.NoError(t, env.admin.MarkDelivered("liv@gmail.com", o.ID()))
	assert.ErrorIs(t, env.admin.MarkDelivered("liv@gmail.com", 9999), ErrOrderNotFound)

	notes := env.admin.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "liv@gmail.com", notes[0].Courier)
	assert.Equal(t, o.ID(), notes[0].OrderID)

	require.NoError(t, env.admin.ClearNotifications())
	assert.Empty(t, env.admin.Notifications())
}

func TestUserApproval(t *testing.T) {
	env := newRestaurantEnv(t)
	require.NoError(t, env.users.Register("liv@gmail.com", "pw", enum.UserRoleLivreur))
	require.NoError(t, env.users.Register("boss@gmail.com", "pw", enum.UserRoleAdmin))

	assert.Len(t, env.admin.PendingUsers(), 2)
	require.NoError(t, env.admin.ApproveUser("liv@gmail.com"))
	require.NoError(t, env.admin.RejectUser("boss@gmail.com"))
	assert.Empty(t, env.admin.PendingUsers())
	assert.Len(t, env.admin.Users(), 2)

	assert.ErrorIs(t, env.admin.ApproveUser("ghost@gmail.com"), account.ErrUserNotFound)
}

func TestStatistics(t *testing.T) {
	now := time.Now()
	paid := func(id int, lines ...order.Line) *order.Order {
		o := order.New(id, now)
		for _, l := range lines {
			require.NoError(t, o.AddLine(l.Item, l.Quantity))
		}
		o.AssignPaymentStrategy(payment.Cash())
		require.NoError(t, o.Settle())
		return o
	}
	line := func(name string, price int64, qty int) order.Line {
		return order.Line{Item: menu.NewItem(name, "", decimal.NewFromInt(price)), Quantity: qty}
	}

	t.Run("empty", func(t *testing.T) {
		st := ComputeStatistics(nil)
		assert.Zero(t, st.PaidOrders)
		assert.True(t, st.Revenue.IsZero())
		assert.Empty(t, st.PopularDish)
	})

	t.Run("counts and revenue", func(t *testing.T) {
		validated := paid(1001, line("Tajine", 900, 1))
		validated.Validate(now)
		unpaid := order.New(1002, now)
		require.NoError(t, unpaid.AddLine(menu.NewItem("Café", "", decimal.NewFromInt(200)), 5))

		st := ComputeStatistics([]*order.Order{
			paid(1000, line("Couscous", 800, 2), line("Baklawa", 400, 1)),
			validated,
			unpaid,
		})
		assert.Equal(t, 2, st.PendingOrders)
		assert.Equal(t, 2, st.PaidOrders)
		assert.True(t, st.Revenue.Equal(decimal.NewFromInt(2900)))
		assert.Equal(t, "Couscous", st.PopularDish)
		assert.Equal(t, 2, st.PopularCount)
	})

	t.Run("tie goes to first name", func(t *testing.T) {
		st := ComputeStatistics([]*order.Order{
			paid(1000, line("Zlabia", 300, 2)),
			paid(1001, line("Baklawa", 400, 2)),
			paid(1002, line("Makroud", 350, 1)),
		})
		assert.Equal(t, "Baklawa", st.PopularDish)
		assert.Equal(t, 2, st.PopularCount)
	})
}

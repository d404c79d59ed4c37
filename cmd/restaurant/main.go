package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/DhikraCh/resto-management/internal/account"
	"github.com/DhikraCh/resto-management/internal/config"
	"github.com/DhikraCh/resto-management/internal/filestore"
	"github.com/DhikraCh/resto-management/internal/logging"
	"github.com/DhikraCh/resto-management/internal/menu"
	"github.com/DhikraCh/resto-management/internal/notify"
	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/DhikraCh/resto-management/internal/service"
	"github.com/DhikraCh/resto-management/internal/session"
	"github.com/sirupsen/logrus"
)

const usage = `usage: restaurant <command> [flags]

commands:
  menu                         show the menu
  register -email -password [-role CLIENT|LIVREUR|ADMIN]
  login -email -password | login -guest
  logout
  order -item NAME[=QTY] ... -pay CASH|CARD|MOBILE|ONSITE [-details TEXT]
  history                      your orders (all orders for staff)
  pending                      admin: orders waiting for validation
  validate -id N               admin: mark an order ready
  assign -id N                 admin: hand an order to the couriers
  deliveries                   courier: orders out for delivery
  deliver -id N                courier: report an order delivered
  notifications                admin: delivery reports
  clear-notifications          admin
  users                        admin: every account
  approve -email               admin
  reject -email                admin
  clients                      admin: order history per client
  stats                        admin: dashboard figures
`

// app is the composition root shared by every command.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	out      io.Writer
	session  *session.Session
	accounts *service.AccountService
	orders   *service.OrderController
	admin    *service.AdminService
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	a, err := newApp(cfg, log, os.Stdout)
	if err != nil {
		log.WithError(err).Fatal("startup failed")
	}

	if err := a.run(os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, log *logrus.Logger, out io.Writer) (*app, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	users, err := account.NewDirectory(cfg.Path(cfg.UsersFile), log, account.WithHashedPasswords(cfg.HashPasswords))
	if err != nil {
		return nil, err
	}
	admins, err := account.NewAdminRegistry(cfg.Path(cfg.AdminsFile), log)
	if err != nil {
		return nil, err
	}

	orderStore := filestore.NewOrderStore(cfg.Path(cfg.OrdersFile), log)
	clients := filestore.NewClientOrderIndex(cfg.Path(cfg.ClientOrdersFile), log)
	deliveries := filestore.NewDeliveryLog(cfg.Path(cfg.NotificationsFile), log)

	hub := notify.NewHub(log)
	hub.Subscribe("kitchen", notify.KitchenObserver(log))

	sess := session.New()
	restaurant := service.NewRestaurant(menu.Default(), orderStore, log)

	return &app{
		cfg:      cfg,
		log:      log,
		out:      out,
		session:  sess,
		accounts: service.NewAccountService(users, admins, sess, cfg.JWTSecret, cfg.SessionTTL, log),
		orders:   service.NewOrderController(restaurant, sess, clients, hub, order.NewSequence(nextOrderID(cfg.FirstOrderID, restaurant.Orders())), log),
		admin:    service.NewAdminService(restaurant, users, clients, deliveries, log),
	}, nil
}

// nextOrderID is the first id above every stored order. Each command runs
// in its own process, so the sequence starts past what earlier runs wrote.
func nextOrderID(first int, orders []*order.Order) int {
	next := first
	for _, o := range orders {
		if o.ID() >= next {
			next = o.ID() + 1
		}
	}
	return next
}

// resume restores the saved session, if any. A stale token is dropped.
func (a *app) resume() {
	raw, err := os.ReadFile(a.cfg.Path(a.cfg.SessionFile))
	if err != nil {
		return
	}
	if _, err := a.accounts.Resume(strings.TrimSpace(string(raw))); err != nil {
		a.log.WithError(err).Debug("saved session ignored")
		a.forgetSession()
	}
}

func (a *app) rememberSession(token string) error {
	if err := os.WriteFile(a.cfg.Path(a.cfg.SessionFile), []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (a *app) forgetSession() {
	if err := os.Remove(a.cfg.Path(a.cfg.SessionFile)); err != nil && !os.IsNotExist(err) {
		a.log.WithError(err).Warn("could not remove session file")
	}
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/filestore"
	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/DhikraCh/resto-management/internal/service"
)

var errUsage = errors.New("usage")

type command func(a *app, args []string) error

var commands = map[string]command{
	"menu":                (*app).cmdMenu,
	"register":            (*app).cmdRegister,
	"login":               (*app).cmdLogin,
	"logout":              (*app).cmdLogout,
	"order":               (*app).cmdOrder,
	"history":             (*app).cmdHistory,
	"pending":             (*app).cmdPending,
	"validate":            (*app).cmdValidate,
	"assign":              (*app).cmdAssign,
	"deliveries":          (*app).cmdDeliveries,
	"deliver":             (*app).cmdDeliver,
	"notifications":       (*app).cmdNotifications,
	"clear-notifications": (*app).cmdClearNotifications,
	"users":               (*app).cmdUsers,
	"approve":             (*app).cmdApprove,
	"reject":              (*app).cmdReject,
	"clients":             (*app).cmdClients,
	"stats":               (*app).cmdStats,
}

func (a *app) run(name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return errUsage
	}
	if name != "login" && name != "register" {
		a.resume()
	}
	return cmd(a, args)
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", fs.Name(), err)
	}
	return nil
}

func (a *app) require(role enum.UserRole) error {
	u, ok := a.session.Current()
	if !ok {
		return service.ErrNotLoggedIn
	}
	if u.Role != role {
		return fmt.Errorf("%s: %w", u.Role, service.ErrForbidden)
	}
	return nil
}

func (a *app) cmdMenu(args []string) error {
	cat := a.orders.Menu()
	a.printf("%s\n", cat.Name())
	for _, c := range a.orders.MenuCategories() {
		a.printf("\n%s (%s)\n", c.Name, c.Description)
		for _, it := range c.Items() {
			a.printf("  %-18s %8s DA  %s\n", it.Name, it.Price.StringFixed(2), it.Description)
		}
	}
	return nil
}

func (a *app) cmdRegister(args []string) error {
	fs := newFlags("register")
	email := fs.String("email", "", "account email (@gmail.com)")
	password := fs.String("password", "", "account password")
	role := fs.String("role", string(enum.UserRoleClient), "CLIENT, LIVREUR or ADMIN")
	if err := parse(fs, args); err != nil {
		return err
	}

	r, ok := enum.ParseUserRole(strings.ToUpper(*role))
	if !ok {
		return fmt.Errorf("unknown role %q", *role)
	}
	if err := a.accounts.Register(*email, *password, r); err != nil {
		return err
	}
	if r == enum.UserRoleClient {
		a.printf("Compte client créé: %s\n", *email)
	} else {
		a.printf("Demande enregistrée pour %s (%s), en attente d'approbation\n", *email, r)
	}
	return nil
}

func (a *app) cmdLogin(args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	guest := fs.Bool("guest", false, "continue without an account")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *guest {
		a.accounts.LoginAsGuest()
		a.forgetSession()
		a.printf("Mode invité\n")
		return nil
	}

	token, u, err := a.accounts.Login(*email, *password)
	if err != nil {
		return err
	}
	if err := a.rememberSession(token); err != nil {
		return err
	}
	a.printf("Bienvenue %s (%s)\n", u.Email, u.RoleLabel())
	return nil
}

func (a *app) cmdLogout(args []string) error {
	a.accounts.Logout()
	a.forgetSession()
	a.printf("Déconnecté\n")
	return nil
}

// itemFlags collects repeated -item NAME[=QTY] values.
type itemFlags []string

func (f *itemFlags) String() string     { return strings.Join(*f, ",") }
func (f *itemFlags) Set(v string) error { *f = append(*f, v); return nil }

func splitItem(v string) (string, int, error) {
	name, qty, found := strings.Cut(v, "=")
	if !found {
		return strings.TrimSpace(v), 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil {
		return "", 0, fmt.Errorf("quantity for %q: %w", name, err)
	}
	return strings.TrimSpace(name), n, nil
}

func (a *app) cmdOrder(args []string) error {
	fs := newFlags("order")
	var items itemFlags
	fs.Var(&items, "item", "menu item, NAME or NAME=QTY (repeatable)")
	method := fs.String("pay", "", "CASH, CARD, MOBILE or ONSITE")
	details := fs.String("details", "", "card or wallet details")
	if err := parse(fs, args); err != nil {
		return err
	}
	if len(items) == 0 || *method == "" {
		return errUsage
	}
	if !a.session.IsLoggedIn() {
		a.accounts.LoginAsGuest()
	}

	a.orders.CreateNewOrder()
	for _, v := range items {
		name, qty, err := splitItem(v)
		if err != nil {
			return err
		}
		it, err := a.orders.FindMenuItem(name)
		if err != nil {
			return err
		}
		if err := a.orders.AddItemToOrder(it, qty); err != nil {
			return fmt.Errorf("%s: %w", it.Name, err)
		}
	}
	if err := a.orders.SetPaymentMethod(*method, *details); err != nil {
		return err
	}

	o, err := a.orders.ValidateAndPayOrder()
	if err != nil {
		return err
	}
	a.printf("Commande #%d validée\n", o.ID())
	a.printOrder(o)
	return nil
}

func (a *app) cmdHistory(args []string) error {
	orders := a.orders.OrderHistory()
	if len(orders) == 0 {
		a.printf("Aucune commande\n")
		return nil
	}
	for _, o := range orders {
		a.printOrder(o)
	}
	return nil
}

func (a *app) cmdPending(args []string) error {
	if err := a.require(enum.UserRoleAdmin); err != nil {
		return err
	}
	return a.printOrders(a.admin.PendingOrders(), "Aucune commande en attente")
}

func (a *app) idFlag(name string, args []string) (int, error) {
	fs := newFlags(name)
	id := fs.Int("id", 0, "order id")
	if err := parse(fs, args); err != nil {
		return 0, err
	}
	if *id == 0 {
		return 0, errUsage
	}
	return *id, nil
}

func (a *app) cmdValidate(args []string) error {
	if err := a.require(enum.UserRoleAdmin); err != nil {
		return err
	}
	id, err := a.idFlag("validate", args)
	if err != nil {
		return err
	}
	if err := a.admin.ValidateOrder(id); err != nil {
		return err
	}
	a.printf("Commande #%d prête à récupérer\n", id)
	return nil
}

func (a *app) cmdAssign(args []string) error {
	if err := a.require(enum.UserRoleAdmin); err != nil {
		return err
	}
	id, err := a.idFlag("assign", args)
	if err != nil {
		return err
	}
	if err := a.admin.AssignDelivery(id); err != nil {
		return err
	}
	a.printf("Commande #%d confiée aux livreurs\n", id)
	return nil
}

func (a *app) cmdDeliveries(args []string) error {
	if err := a.require(enum.UserRoleLivreur); err != nil {
		return err
	}
	return a.printOrders(a.admin.DeliveryOrders(), "Aucune commande à livrer pour le moment")
}

func (a *app) cmdDeliver(args []string) error {
	if err := a.require(enum.UserRoleLivreur); err != nil {
		return err
	}
	id, err := a.idFlag("deliver", args)
	if err != nil {
		return err
	}
	if err := a.admin.MarkDelivered(a.session.CurrentEmail(), id); err != nil {
		return err
	}
	a.printf("Commande #%d marquée comme livrée\n", id)
	return nil
}

func (a *app) cmdNotifications(args []string) error {
	if err := a.require(enum.UserRoleAdmin); err != nil {
		return err
	}
	notes := a.admin.Notifications()
	if len(notes) == 0 {
		a.printf("Aucune notification\n")
	}
	for _, n := range notes {
		a.printf("%s\n", n)
	}
	return nil
}

func (a *app) cmdClearNotifications(args []string) error {
	if err := a.require(enum.UserRoleAdmin); err != nil {
		return err
	}
	return a.admin.ClearNotifications()
}

func (a *app) cmdUsers(args []string) error {
	if err := a.require(enum.UserRoleAdmin); err != nil {
		return err
	}
	for _, u := range a.admin.Users() {
		a.printf("%-30s %-15s %s\n", u.Email, u.RoleLabel(), u.Status)
	}
	return nil
}

func (a *app) emailFlag(name string, args []string) (string, error) {
	fs := newFlags(name)
	email := fs.String("email", "", "account email")
	if err := parse(fs, args); err != nil {
		return "", err
	}
	if *email == "" {
		return "", errUsage
	}
	return *email, nil
}

func (a *app) cmdApprove(args []string) error {
	if err := a.require(enum.UserRoleAdmin); err != nil {
		return err
	}
	email, err := a.emailFlag("approve", args)
	if err != nil {
		return err
	}
	return a.admin.ApproveUser(email)
}

func (a *app) cmdReject(args []string) error {
	if err := a.require(enum.UserRoleAdmin); err != nil {
		return err
	}
	email, err := a.emailFlag("reject", args)
	if err != nil {
		return err
	}
	return a.admin.RejectUser(email)
}

func (a *app) cmdClients(args []string) error {
	if err := a.require(enum.UserRoleAdmin); err != nil {
		return err
	}
	all := a.admin.ClientHistories()
	for _, email := range sortedKeys(all) {
		a.printf("%s (%d)\n", email, len(all[email]))
		for _, o := range all[email] {
			a.printOrder(o)
		}
	}
	return nil
}

func (a *app) cmdStats(args []string) error {
	if err := a.require(enum.UserRoleAdmin); err != nil {
		return err
	}
	st := a.admin.Statistics()
	popular := "Aucun"
	if st.PopularDish != "" {
		popular = fmt.Sprintf("%s (%dx)", st.PopularDish, st.PopularCount)
	}
	a.printf("En attente:      %d\n", st.PendingOrders)
	a.printf("Commandes payées: %d\n", st.PaidOrders)
	a.printf("Chiffre d'affaires: %s DA\n", st.Revenue.StringFixed(0))
	a.printf("Plus populaire:  %s\n", popular)
	return nil
}

func (a *app) printOrders(orders []*order.Order, empty string) error {
	if len(orders) == 0 {
		a.printf("%s\n", empty)
		return nil
	}
	for _, o := range orders {
		a.printOrder(o)
	}
	return nil
}

func (a *app) printOrder(o *order.Order) {
	a.printf("#%d  %s  %s  %s\n", o.ID(), o.CreatedAt().Format(filestore.DateLayout), o.Status(), o.PaymentLabel())
	for _, l := range o.Lines() {
		a.printf("    %dx %-18s %s DA\n", l.Quantity, l.Item.Name, l.Subtotal().StringFixed(2))
	}
	a.printf("    TOTAL %s DA\n", o.Total().StringFixed(2))
}

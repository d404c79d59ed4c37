package order

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/menu"
	"github.com/DhikraCh/resto-management/internal/payment"
	"github.com/shopspring/decimal"
)

var (
	couscous = menu.NewItem("Couscous", "", decimal.NewFromInt(800))
	baklawa  = menu.NewItem("Baklawa", "", decimal.NewFromInt(400))
	chorba   = menu.NewItem("Chorba", "", decimal.NewFromInt(350))
	now      = time.Date(2024, 3, 5, 12, 30, 0, 0, time.Local)
)

func TestTotalFollowsLines(t *testing.T) {
	o := New(1000, now)
	mustAdd(t, o, couscous, 2)
	mustAdd(t, o, baklawa, 1)
	mustAdd(t, o, chorba, 3)

	if got := o.Total(); !got.Equal(decimal.NewFromInt(3050)) {
		t.Fatalf("total: got %s, want 3050", got)
	}

	o.RemoveLine(2)
	if got := o.Total(); !got.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("total after remove: got %s, want 2000", got)
	}

	o.RemoveLine(-1)
	o.RemoveLine(10)
	if got := len(o.Lines()); got != 2 {
		t.Fatalf("lines after out of range remove: got %d, want 2", got)
	}
}

func TestDuplicateItemsAreNotMerged(t *testing.T) {
	o := New(1000, now)
	mustAdd(t, o, couscous, 1)
	mustAdd(t, o, couscous, 1)

	if got := len(o.Lines()); got != 2 {
		t.Fatalf("lines: got %d, want 2", got)
	}
}

func TestAddLineRejectsBadQuantity(t *testing.T) {
	o := New(1000, now)
	for _, qty := range []int{0, -3} {
		if err := o.AddLine(couscous, qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("qty %d: got %v, want ErrInvalidQuantity", qty, err)
		}
	}
	if len(o.Lines()) != 0 {
		t.Fatal("rejected lines were added")
	}
}

func TestSettleFailures(t *testing.T) {
	t.Run("no strategy", func(t *testing.T) {
		o := New(1000, now)
		mustAdd(t, o, couscous, 1)
		if err := o.Settle(); !errors.Is(err, ErrNoPaymentStrategy) {
			t.Fatalf("got %v, want ErrNoPaymentStrategy", err)
		}
		if o.IsPaid() || o.PaymentLabel() != "" {
			t.Fatal("failed settle changed the order")
		}
	})

	t.Run("empty", func(t *testing.T) {
		o := New(1000, now)
		o.AssignPaymentStrategy(payment.Cash())
		if err := o.Settle(); !errors.Is(err, ErrEmptyOrder) {
			t.Fatalf("got %v, want ErrEmptyOrder", err)
		}
		if o.IsPaid() {
			t.Fatal("empty order marked paid")
		}
	})
}

func TestSettleWithEveryStrategy(t *testing.T) {
	tests := []struct {
		strategy payment.Strategy
		label    string
		onsite   bool
	}{
		{payment.Cash(), "PAID", false},
		{payment.Card("4111111111111111"), "PAID", false},
		{payment.Mobile("0555123456"), "PAID", false},
		{payment.Onsite(), "ONSITE", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy.Method()), func(t *testing.T) {
			o := New(1000, now)
			mustAdd(t, o, couscous, 1)
			o.AssignPaymentStrategy(tt.strategy)

			if err := o.Settle(); err != nil {
				t.Fatalf("settle: %v", err)
			}
			if !o.IsPaid() {
				t.Error("not paid")
			}
			if o.PaymentLabel() != tt.label {
				t.Errorf("label: got %q, want %q", o.PaymentLabel(), tt.label)
			}
			if o.PaymentMethod() != tt.strategy.Method() {
				t.Errorf("method: got %q, want %q", o.PaymentMethod(), tt.strategy.Method())
			}
			if o.IsOnsitePayment() != tt.onsite {
				t.Errorf("onsite: got %v, want %v", o.IsOnsitePayment(), tt.onsite)
			}
		})
	}
}

func TestAssignPaymentStrategyReplaces(t *testing.T) {
	o := New(1000, now)
	mustAdd(t, o, baklawa, 1)
	o.AssignPaymentStrategy(payment.Cash())
	o.AssignPaymentStrategy(payment.Onsite())

	if err := o.Settle(); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !o.IsOnsitePayment() {
		t.Fatal("last assigned strategy was not used")
	}
}

func TestRestoredPaymentSurvivesSettle(t *testing.T) {
	o := New(1000, now)
	mustAdd(t, o, baklawa, 1)
	o.RestorePayment("ONSITE", enum.PaymentMethodOnsite)
	o.AssignPaymentStrategy(payment.Cash())

	if err := o.Settle(); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if o.PaymentLabel() != "ONSITE" || o.PaymentMethod() != enum.PaymentMethodOnsite {
		t.Fatalf("restored payment overwritten: %q %q", o.PaymentLabel(), o.PaymentMethod())
	}
}

func TestLegacyOnsiteLabel(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"ONSITE", true},
		{"Paiement sur place", true},
		{"Payé", false},
		{"PAID", false},
	}
	for _, tt := range tests {
		o := New(1000, now)
		o.RestorePayment(tt.label, "")
		if got := o.IsOnsitePayment(); got != tt.want {
			t.Errorf("label %q: got %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestStatusTransitionsArePermissive(t *testing.T) {
	o := New(1000, now)
	if !o.IsPending() {
		t.Fatal("new order should be pending")
	}
	if _, ok := o.ProcessedAt(); ok {
		t.Fatal("new order has processedAt")
	}

	later := now.Add(time.Hour)
	o.AssignDelivery(later)
	if !o.IsDelivered() {
		t.Fatal("pending order should accept delivery")
	}
	o.Validate(later.Add(time.Minute))
	if !o.IsValidated() {
		t.Fatal("delivered order should accept validation")
	}
	if at, ok := o.ProcessedAt(); !ok || !at.Equal(later.Add(time.Minute)) {
		t.Fatalf("processedAt: got %v %v", at, ok)
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence(FirstID)
	if got := s.Next(); got != 1000 {
		t.Fatalf("first: got %d, want 1000", got)
	}
	if got := s.Next(); got != 1001 {
		t.Fatalf("second: got %d, want 1001", got)
	}

	var wg sync.WaitGroup
	seen := sync.Map{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.Next()
			if _, dup := seen.LoadOrStore(id, true); dup {
				t.Errorf("duplicate id %d", id)
			}
		}()
	}
	wg.Wait()
}

func mustAdd(t *testing.T, o *Order, item menu.Item, qty int) {
	t.Helper()
	if err := o.AddLine(item, qty); err != nil {
		t.Fatalf("add line: %v", err)
	}
}

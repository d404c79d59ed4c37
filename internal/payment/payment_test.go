package payment

import (
	"errors"
	"testing"

	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/shopspring/decimal"
)

func TestSettleAlwaysSucceeds(t *testing.T) {
	amount := decimal.NewFromInt(500)

	tests := []struct {
		name     string
		strategy Strategy
		label    enum.PaymentLabel
	}{
		{"cash", Cash(), enum.PaymentLabelPaid},
		{"card", Card("4111111111111111"), enum.PaymentLabelPaid},
		{"mobile", Mobile("0555 12 34 56"), enum.PaymentLabelPaid},
		{"onsite", Onsite(), enum.PaymentLabelOnsite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := tt.strategy.Settle(amount)
			if err != nil {
				t.Fatalf("settle: %v", err)
			}
			if label != tt.label {
				t.Errorf("label: got %q, want %q", label, tt.label)
			}
			if !tt.strategy.Pay(amount) {
				t.Error("pay returned false")
			}
		})
	}
}

func TestZeroStrategyCannotSettle(t *testing.T) {
	var s Strategy
	if !s.IsZero() {
		t.Fatal("zero strategy should report IsZero")
	}
	if _, err := s.Settle(decimal.NewFromInt(1)); !errors.Is(err, ErrNoMethod) {
		t.Fatalf("got %v, want ErrNoMethod", err)
	}
	if s.Pay(decimal.NewFromInt(1)) {
		t.Fatal("zero strategy paid")
	}
}

func TestFromCode(t *testing.T) {
	tests := []struct {
		code    string
		details string
		method  enum.PaymentMethod
		wantErr bool
	}{
		{"CASH", "", enum.PaymentMethodCash, false},
		{"card", "1234", enum.PaymentMethodCard, false},
		{" Mobile ", "0555", enum.PaymentMethodMobile, false},
		{"onsite", "", enum.PaymentMethodOnsite, false},
		{"BITCOIN", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			s, err := FromCode(tt.code, tt.details)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMethod) {
					t.Fatalf("got %v, want ErrUnknownMethod", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("from code: %v", err)
			}
			if s.Method() != tt.method {
				t.Errorf("method: got %q, want %q", s.Method(), tt.method)
			}
			if s.Details() != tt.details {
				t.Errorf("details: got %q, want %q", s.Details(), tt.details)
			}
		})
	}
}

func TestMaskedDetails(t *testing.T) {
	tests := []struct {
		details string
		want    string
	}{
		{"4111111111111111", "************1111"},
		{"1234", "1234"},
		{"", ""},
		{"12|34|56", "**3456"},
	}

	for _, tt := range tests {
		if got := Card(tt.details).MaskedDetails(); got != tt.want {
			t.Errorf("MaskedDetails(%q): got %q, want %q", tt.details, got, tt.want)
		}
	}
}

func TestMethodLabel(t *testing.T) {
	if got := Onsite().MethodLabel(); got != "Paiement sur place" {
		t.Errorf("onsite label: got %q", got)
	}
	if got := (Strategy{}).MethodLabel(); got != "Aucune" {
		t.Errorf("zero label: got %q", got)
	}
}

package payment

import (
	"errors"
	"strings"

	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownMethod = errors.New("unknown payment method")
	ErrNoMethod      = errors.New("no payment method")
)

// Strategy is one of the four settlement variants. The zero value is "no
// strategy" and cannot settle anything.
type Strategy struct {
	method  enum.PaymentMethod
	details string
}

func Cash() Strategy { return Strategy{method: enum.PaymentMethodCash} }

// Card carries free-form card details. They are not validated.
func Card(details string) Strategy {
	return Strategy{method: enum.PaymentMethodCard, details: details}
}

// Mobile carries free-form wallet details (phone number, reference).
func Mobile(details string) Strategy {
	return Strategy{method: enum.PaymentMethodMobile, details: details}
}

func Onsite() Strategy { return Strategy{method: enum.PaymentMethodOnsite} }

// FromCode maps a CASH/CARD/MOBILE/ONSITE tag, in any case, to a strategy.
func FromCode(code, details string) (Strategy, error) {
	switch enum.PaymentMethod(strings.ToUpper(strings.TrimSpace(code))) {
	case enum.PaymentMethodCash:
		return Cash(), nil
	case enum.PaymentMethodCard:
		return Card(details), nil
	case enum.PaymentMethodMobile:
		return Mobile(details), nil
	case enum.PaymentMethodOnsite:
		return Onsite(), nil
	}
	return Strategy{}, ErrUnknownMethod
}

func (s Strategy) IsZero() bool { return s.method == "" }

func (s Strategy) Method() enum.PaymentMethod { return s.method }

func (s Strategy) Details() string { return s.details }

// Settle charges amount. Every variant succeeds; the returned label tells
// whether the money is still to be collected at the counter.
func (s Strategy) Settle(amount decimal.Decimal) (enum.PaymentLabel, error) {
	switch s.method {
	case enum.PaymentMethodOnsite:
		return enum.PaymentLabelOnsite, nil
	case enum.PaymentMethodCash, enum.PaymentMethodCard, enum.PaymentMethodMobile:
		return enum.PaymentLabelPaid, nil
	}
	return "", ErrNoMethod
}

// Pay is the boolean form of Settle.
func (s Strategy) Pay(amount decimal.Decimal) bool {
	_, err := s.Settle(amount)
	return err == nil
}

// MethodLabel is the human readable name of the variant.
func (s Strategy) MethodLabel() string {
	switch s.method {
	case enum.PaymentMethodCash:
		return "Espèces"
	case enum.PaymentMethodCard:
		return "Carte bancaire"
	case enum.PaymentMethodMobile:
		return "Paiement mobile"
	case enum.PaymentMethodOnsite:
		return "Paiement sur place"
	}
	return "Aucune"
}

// MaskedDetails keeps the last four characters of the details, enough to
// recognise a card or phone in the history without storing it.
func (s Strategy) MaskedDetails() string {
	d := strings.Map(func(r rune) rune {
		if r == '|' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s.details))
	r := []rune(d)
	if len(r) <= 4 {
		return d
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}

package filestore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DhikraCh/resto-management/internal/enum"
	"github.com/DhikraCh/resto-management/internal/menu"
	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/DhikraCh/resto-management/internal/payment"
	"github.com/shopspring/decimal"
)

// DateLayout is dd/MM/yyyy HH:mm, shared by every history file.
const DateLayout = "02/01/2006 15:04"

const (
	clientPrefix = "CLIENT:"
	orderPrefix  = "ORDER:"
	itemPrefix   = "ITEM:"
	blockEnd     = "---"
)

// Record is one decoded order block. Client is empty in orders.txt.
type Record struct {
	Client string
	Order  *order.Order
}

// Decoded is the result of reading a history file.
type Decoded struct {
	Records  []Record
	Warnings []string // Lines or fields that failed to parse
}

// EncodeOrder renders the ORDER line, one ITEM line per line and the
// separator.
func EncodeOrder(o *order.Order) []string {
	processed := ""
	if at, ok := o.ProcessedAt(); ok {
		processed = at.Format(DateLayout)
	}

	fields := []string{
		strconv.Itoa(o.ID()),
		o.CreatedAt().Format(DateLayout),
		FormatAmount(o.Total()),
		strconv.FormatBool(o.IsPaid()),
		clean(o.PaymentLabel()),
		string(o.Status()),
		processed,
	}
	if m := o.PaymentMethod(); m != "" {
		fields = append(fields, string(m))
		if ref := clean(o.PaymentReference()); ref != "" {
			fields = append(fields, ref)
		}
	}

	out := []string{orderPrefix + strings.Join(fields, "|")}
	for _, l := range o.Lines() {
		out = append(out, itemPrefix+clean(l.Item.Name)+"|"+FormatAmount(l.Item.Price)+"|"+strconv.Itoa(l.Quantity))
	}
	return append(out, blockEnd)
}

// EncodeClientOrder prefixes the block with the owning client.
func EncodeClientOrder(email string, o *order.Order) []string {
	return append([]string{clientPrefix + clean(email)}, EncodeOrder(o)...)
}

// FormatAmount writes whole amounts with one decimal ("800.0") and
// everything else as is ("12.5"), the way older files were written.
func FormatAmount(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.StringFixed(1)
	}
	return d.String()
}

// Decode reads history lines. Each block is force-settled with cash when its
// separator is reached, which keeps any restored payment label. now supplies
// the creation time of orders whose date cannot be read.
func Decode(lines []string, now func() time.Time) Decoded {
	var (
		res      Decoded
		client   string
		cur      *order.Order
		skipping bool
	)

	warn := func(n int, format string, args ...any) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: ", n)+fmt.Sprintf(format, args...))
	}

	for i, raw := range lines {
		n := i + 1
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, clientPrefix):
			client = strings.TrimSpace(strings.TrimPrefix(line, clientPrefix))
			cur, skipping = nil, false

		case strings.HasPrefix(line, orderPrefix):
			o, warnings, err := decodeOrderLine(strings.TrimPrefix(line, orderPrefix), now)
			for _, w := range warnings {
				warn(n, "%s", w)
			}
			if err != nil {
				warn(n, "skipped order: %v", err)
				cur, skipping = nil, true
				continue
			}
			cur, skipping = o, false
			res.Records = append(res.Records, Record{Client: client, Order: o})

		case strings.HasPrefix(line, itemPrefix):
			if skipping {
				continue
			}
			if cur == nil {
				warn(n, "item outside an order block")
				continue
			}
			item, qty, err := decodeItemLine(strings.TrimPrefix(line, itemPrefix))
			if err != nil {
				warn(n, "skipped item: %v", err)
				continue
			}
			if err := cur.AddLine(item, qty); err != nil {
				warn(n, "skipped item: %v", err)
			}

		case line == blockEnd:
			if cur != nil {
				cur.AssignPaymentStrategy(payment.Cash())
				if err := cur.Settle(); err != nil {
					warn(n, "order %d left unpaid: %v", cur.ID(), err)
				}
			}
			cur, skipping = nil, false

		default:
			warn(n, "unrecognised line %q", line)
		}
	}
	return res
}

// decodeOrderLine accepts the full layout
//
//	id|created|total|isPaid|label|STATUS|processed[|METHOD[|ref]]
//
// and the legacy client layout id|created|total|label|STATUS. Only a bad
// id is fatal; other fields are dropped one by one with a warning.
func decodeOrderLine(s string, now func() time.Time) (*order.Order, []string, error) {
	parts := strings.Split(s, "|")
	var warnings []string

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid id %q", parts[0])
	}

	createdAt := now()
	if len(parts) > 1 {
		if t, err := parseDate(parts[1]); err == nil {
			createdAt = t
		} else {
			warnings = append(warnings, fmt.Sprintf("order %d: invalid date %q", id, parts[1]))
		}
	}
	o := order.New(id, createdAt)

	var label, status, processed, method, ref string
	legacy := len(parts) == 5 && parts[3] != "true" && parts[3] != "false"
	if legacy {
		label = field(parts, 3)
		status = field(parts, 4)
	} else {
		if paid := field(parts, 3); paid != "" && paid != "true" && paid != "false" {
			warnings = append(warnings, fmt.Sprintf("order %d: invalid paid flag %q", id, paid))
		}
		label = field(parts, 4)
		status = field(parts, 5)
		processed = field(parts, 6)
		method = field(parts, 7)
		ref = field(parts, 8)
	}

	if status != "" {
		if st, ok := enum.ParseOrderStatus(status); ok {
			o.SetStatus(st)
		} else {
			warnings = append(warnings, fmt.Sprintf("order %d: unknown status %q", id, status))
		}
	}
	if processed != "" {
		if t, err := parseDate(processed); err == nil {
			o.SetProcessedAt(t)
		} else {
			warnings = append(warnings, fmt.Sprintf("order %d: invalid processed time %q", id, processed))
		}
	}

	var pm enum.PaymentMethod
	if method != "" {
		if m, ok := enum.ParsePaymentMethod(method); ok {
			pm = m
		} else {
			warnings = append(warnings, fmt.Sprintf("order %d: unknown payment method %q", id, method))
		}
	}
	if label != "" || pm != "" {
		o.RestorePayment(label, pm)
	}
	if ref != "" {
		o.SetPaymentReference(ref)
	}

	return o, warnings, nil
}

func decodeItemLine(s string) (menu.Item, int, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 3 {
		return menu.Item{}, 0, fmt.Errorf("want 3 fields, got %d", len(parts))
	}
	price, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return menu.Item{}, 0, fmt.Errorf("invalid price %q", parts[1])
	}
	if price.IsNegative() {
		return menu.Item{}, 0, fmt.Errorf("negative price %q", parts[1])
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return menu.Item{}, 0, fmt.Errorf("invalid quantity %q", parts[2])
	}
	return menu.NewItem(parts[0], "", price), qty, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

func field(parts []string, i int) string {
	if i < len(parts) {
		return strings.TrimSpace(parts[i])
	}
	return ""
}

// clean strips characters that would break the line format.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '|', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

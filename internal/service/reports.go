package service

import (
	"github.com/DhikraCh/resto-management/internal/order"
	"github.com/shopspring/decimal"
)

// Statistics is the admin dashboard summary.
type Statistics struct {
	PendingOrders int
	PaidOrders    int
	Revenue       decimal.Decimal
	// PopularDish is empty when nothing was sold.
	PopularDish  string
	PopularCount int
}

// ComputeStatistics counts quantities sold per dish name over paid orders.
// Ties go to the alphabetically first name.
func ComputeStatistics(orders []*order.Order) Statistics {
	st := Statistics{Revenue: decimal.Zero}
	sold := make(map[string]int)

	for _, o := range orders {
		if o.IsPending() {
			st.PendingOrders++
		}
		if !o.IsPaid() {
			continue
		}
		st.PaidOrders++
		st.Revenue = st.Revenue.Add(o.Total())
		for _, l := range o.Lines() {
			sold[l.Item.Name] += l.Quantity
		}
	}

	for name, n := range sold {
		if n > st.PopularCount || (n == st.PopularCount && name < st.PopularDish) {
			st.PopularDish = name
			st.PopularCount = n
		}
	}
	return st
}

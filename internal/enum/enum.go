package enum

// ── Group A: State machines ──

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusValidated OrderStatus = "VALIDATED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// ParseOrderStatus maps a persisted status name to its constant.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusValidated, OrderStatusDelivered:
		return OrderStatus(s), true
	}
	return "", false
}

// UserStatus is the approval state of an account.
type UserStatus string

const (
	UserStatusPending  UserStatus = "PENDING"
	UserStatusApproved UserStatus = "APPROVED"
	UserStatusRejected UserStatus = "REJECTED"
)

func ParseUserStatus(s string) (UserStatus, bool) {
	switch UserStatus(s) {
	case UserStatusPending, UserStatusApproved, UserStatusRejected:
		return UserStatus(s), true
	}
	return "", false
}

// ── Group B: Roles ──

type UserRole string

const (
	UserRoleClient  UserRole = "CLIENT"
	UserRoleLivreur UserRole = "LIVREUR"
	UserRoleAdmin   UserRole = "ADMIN"
)

func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case UserRoleClient, UserRoleLivreur, UserRoleAdmin:
		return UserRole(s), true
	}
	return "", false
}

// ── Group C: Payment ──

// PaymentMethod tags the payment strategy variant.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodMobile PaymentMethod = "MOBILE"
	PaymentMethodOnsite PaymentMethod = "ONSITE"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile, PaymentMethodOnsite:
		return PaymentMethod(s), true
	}
	return "", false
}

// PaymentLabel is what a settled order reports about its payment.
type PaymentLabel string

const (
	PaymentLabelPaid   PaymentLabel = "PAID"
	PaymentLabelOnsite PaymentLabel = "ONSITE"
)

// ── Group D: Events ──

const (
	EventOrderValidated = "ORDER_VALIDATED"
)

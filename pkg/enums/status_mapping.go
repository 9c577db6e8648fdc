package enums

import "strings"

// The Shopify webhook and Admin API payloads use their own financial and
// fulfillment vocabularies. Both are translated here, in one place, instead of
// per-handler switch statements.

var financialToPayment = map[string]PaymentStatus{
	"paid":           PaymentStatusPaid,
	"partially_paid": PaymentStatusPartial,
	"refunded":       PaymentStatusCancelled,
	"voided":         PaymentStatusCancelled,
}

var fulfillmentToOrder = map[string]OrderStatus{
	"fulfilled":   OrderStatusDelivered,
	"partial":     OrderStatusProcessing,
	"in_progress": OrderStatusProcessing,
	"cancelled":   OrderStatusCancelled,
}

// PaymentStatusFromFinancial maps a Shopify financial status onto the local
// payment status. Unknown or empty values default to pending.
func PaymentStatusFromFinancial(financial string) PaymentStatus {
	if status, ok := financialToPayment[normalizeShopifyStatus(financial)]; ok {
		return status
	}
	return PaymentStatusPending
}

// OrderStatusFromFulfillment maps a Shopify fulfillment status onto the local
// order status. Unknown or empty values default to submitted.
func OrderStatusFromFulfillment(fulfillment string) OrderStatus {
	if status, ok := fulfillmentToOrder[normalizeShopifyStatus(fulfillment)]; ok {
		return status
	}
	return OrderStatusSubmitted
}

func normalizeShopifyStatus(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

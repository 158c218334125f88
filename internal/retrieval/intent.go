// Package retrieval provides the relevance scorer and the intent-dispatched
// retrieval pipeline over the knowledge store.
package retrieval

// Intent is the coarse classification of a customer message, supplied by
// the upstream intent classifier. This subsystem dispatches on it but never
// classifies messages itself.
type Intent string

const (
	IntentProductInquiry  Intent = "product_inquiry"
	IntentPriceInquiry    Intent = "price_inquiry"
	IntentShippingInquiry Intent = "shipping_inquiry"
	IntentOrderStatus     Intent = "order_status"
	IntentComplaint       Intent = "complaint"
	IntentGeneral         Intent = "general"
)

// WantsProducts reports whether the intent implies product or price
// interest, which triggers the lazy tenant catalog load.
func (i Intent) WantsProducts() bool {
	return i == IntentProductInquiry || i == IntentPriceInquiry
}

// ParseIntent maps a wire intent string to a known Intent. Unknown or
// empty values fall back to IntentGeneral.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentProductInquiry, IntentPriceInquiry, IntentShippingInquiry,
		IntentOrderStatus, IntentComplaint, IntentGeneral:
		return Intent(s)
	default:
		return IntentGeneral
	}
}

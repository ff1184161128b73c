package dto

type RevenueCatWebhook struct {
	APIVersion string          `json:"api_version"`
	Event      RevenueCatEvent `json:"event"`
}

// RevenueCatEvent carries the subset of fields that drive the subscription tier.
// AppUserID is the profile's user id, set by the client at purchase time.
type RevenueCatEvent struct {
	Type           string   `json:"type"`
	ID             string   `json:"id"`
	AppUserID      string   `json:"app_user_id"`
	ProductID      string   `json:"product_id"`
	EntitlementIDs []string `json:"entitlement_ids"`
	PeriodType     string   `json:"period_type"`
	ExpirationAtMs int64    `json:"expiration_at_ms"`
	Environment    string   `json:"environment"`
}

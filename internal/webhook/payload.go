package webhook

// ReturnRequest is the body posted to the return endpoint.
type ReturnRequest struct {
	OrderID     string `json:"orderId"`
	Email       string `json:"email"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// ExchangeRequest is the body posted to the exchange endpoint.
type ExchangeRequest struct {
	OrderID     string `json:"orderId"`
	Email       string `json:"email"`
	Reason      string `json:"reason"`
	NewSize     string `json:"newSize"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

package validation

// ContactStep is checkout step 1.
type ContactStep struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,shopemail"`
	Phone     string `json:"phone" validate:"required,phone"`
}

func (s ContactStep) Fields() map[string]string {
	return map[string]string{
		"firstName": s.FirstName,
		"lastName":  s.LastName,
		"email":     s.Email,
		"phone":     s.Phone,
	}
}

// ShippingStep is checkout step 2.
type ShippingStep struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

func (s ShippingStep) Fields() map[string]string {
	return map[string]string{
		"address": s.Address,
		"city":    s.City,
		"state":   s.State,
		"zipCode": s.ZipCode,
		"country": s.Country,
	}
}

// PaymentStep is checkout step 3. Card values are only checked for presence.
type PaymentStep struct {
	CardNumber string `json:"cardNumber" validate:"required"`
	ExpiryDate string `json:"expiryDate" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
	CardName   string `json:"cardName" validate:"required"`
}

func (s PaymentStep) Fields() map[string]string {
	return map[string]string{
		"cardNumber": s.CardNumber,
		"expiryDate": s.ExpiryDate,
		"cvv":        s.CVV,
		"cardName":   s.CardName,
	}
}

// AddItemRequest is the payload for POST /cart/items. Empty size/color mean no variant.
// Quantity bounds match cart.MaxQuantity.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=999"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// QuantityRequest is the payload for PUT /cart/items/:key. Zero or less removes the line.
type QuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=999"`
}

// AdjustRequest is the payload for POST /cart/items/:key/adjust.
type AdjustRequest struct {
	Delta int `json:"delta" validate:"required,ne=0,gte=-999,lte=999"`
}

type NewsletterRequest struct {
	Email string `json:"email" validate:"required,shopemail"`
}

type ContactMessageRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,shopemail"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message" validate:"required"`
}

type ReturnRequest struct {
	OrderID     string `json:"orderId" validate:"required"`
	Email       string `json:"email" validate:"required,shopemail"`
	Reason      string `json:"reason" validate:"required"`
	Description string `json:"description,omitempty"`
}

type ExchangeRequest struct {
	OrderID     string `json:"orderId" validate:"required"`
	Email       string `json:"email" validate:"required,shopemail"`
	Reason      string `json:"reason" validate:"required"`
	NewSize     string `json:"newSize" validate:"required"`
	Description string `json:"description,omitempty"`
}

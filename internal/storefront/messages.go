package storefront

// User-facing notification texts.
const (
	msgProductNotFound   = "Product not found"
	msgAddToCartFailed   = "Failed to add item to cart"
	msgAddedToCart       = "%s added to cart!"
	msgAddedToWishlist   = "%s added to wishlist!"
	msgRemovedFromWish   = "%s removed from wishlist"
	msgCartEmpty         = "Your cart is empty"
	msgCatalogFailed     = "Failed to load products. Please check your connection and try again."
	msgInvalidEmail      = "Please enter a valid email address"
	msgMissingFields     = "Please fill in all required fields"
	msgInvalidPhone      = "Please enter a valid phone number"
	msgOrderFailed       = "Failed to process order. Please try again."
	msgSubscribed        = "Successfully subscribed to newsletter!"
	msgSubscribeFailed   = "Failed to subscribe. Please try again."
	msgMessageSent       = "Message sent successfully! We'll get back to you soon."
	msgMessageFailed     = "Failed to send message. Please try again."
	msgReturnSubmitted   = "Return request submitted successfully!"
	msgExchangeSubmitted = "Exchange request submitted successfully!"
)

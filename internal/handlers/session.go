package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imrishuroy/go-storefront/internal/checkout"
	"github.com/imrishuroy/go-storefront/internal/storefront"
)

const (
	// SessionHeader carries the session id for API clients.
	SessionHeader = "X-Session-Id"
	// SessionCookie carries the session id for browsers.
	SessionCookie = "shop_session-id"

	sessionContextKey = "storefront.session"
)

// sessionMiddleware resolves the caller's session, minting a new id when none (or a malformed
// one) was sent, and echoes the id back in both the header and the cookie.
func sessionMiddleware(app *storefront.App) gin.HandlerFunc {
	maxAge := int(app.Config().Sessions.TTL.Seconds())
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			if v, err := c.Cookie(SessionCookie); err == nil {
				id = v
			}
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Header(SessionHeader, id)
		c.SetCookie(SessionCookie, id, maxAge, "/", "", false, true)
		c.Set(sessionContextKey, app.Session(c.Request.Context(), id))
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *storefront.Session {
	return c.MustGet(sessionContextKey).(*storefront.Session)
}

// respond writes body plus the session's drained notifications.
func respond(c *gin.Context, status int, s *storefront.Session, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["notifications"] = s.Notifications()
	c.JSON(status, body)
}

// fail maps an operation error to a status code and writes it with the notifications.
func fail(c *gin.Context, s *storefront.Session, err error, extra gin.H) {
	body := gin.H{}
	for k, v := range extra {
		body[k] = v
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	var ve *storefront.ValidationError
	switch {
	case errors.As(err, &ve):
		status, code = http.StatusUnprocessableEntity, "validation_failed"
		body["fields"] = ve.Fields
	case errors.Is(err, storefront.ErrProductNotFound):
		status, code = http.StatusNotFound, "product_not_found"
	case errors.Is(err, checkout.ErrEmptyCart):
		status, code = http.StatusConflict, "cart_empty"
	case errors.Is(err, checkout.ErrNotOpen):
		status, code = http.StatusConflict, "checkout_not_open"
	case errors.Is(err, checkout.ErrNotAtPayment), errors.Is(err, checkout.ErrWrongStep):
		status, code = http.StatusConflict, "wrong_checkout_step"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusServiceUnavailable, "request_interrupted"
	}
	body["error"] = code
	body["detail"] = err.Error()
	respond(c, status, s, body)
}

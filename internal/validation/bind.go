package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// Bind decodes the JSON body into out. On failure it writes a 400 response and returns the
// error so the handler can stop.
func Bind(c *gin.Context, out any) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid_request_body",
			"msg":   err.Error(),
		})
		return err
	}
	return nil
}

// BindAndValidate binds the JSON body into out and runs validation, writing a 400 response
// on either failure.
func BindAndValidate(c *gin.Context, out any, v *validatorv10.Validate) error {
	if err := Bind(c, out); err != nil {
		return err
	}
	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation_failed",
			"fields": FieldErrors(err),
		})
		return err
	}
	return nil
}

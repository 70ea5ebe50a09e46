package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest checks struct tags and turns violations into a 400 the
// error middleware can pass through unchanged.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errs, ok := err.(validator.ValidationErrors); ok {
		ve = errs
	} else {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	details := make([]string, len(ve))
	for i, fe := range ve {
		details[i] = fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
	return fiber.NewError(fiber.StatusBadRequest, strings.Join(details, "; "))
}

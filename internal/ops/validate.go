package ops

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hpungsan/moodlog/internal/errors"
)

var validate = validator.New()

// validateInput checks an Input struct's tags and returns INVALID_REQUEST on failure.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.NewInternal(err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return errors.NewInvalidRequest(strings.Join(msgs, "; "))
}

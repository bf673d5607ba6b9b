package httperror

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FieldError 는 details.errors 의 원소다.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

// validationDetails: validator 오류가 아니면 body 한 건으로 묶는다.
func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]any{"errors": []FieldError{{Field: "body", Message: err.Error()}}}
	}

	fields := make([]FieldError, len(validationErrors))
	for i, fe := range validationErrors {
		fields[i] = FieldError{Field: fe.Field(), Message: fe.Error(), Value: fe.Value()}
	}
	return map[string]any{"errors": fields}
}

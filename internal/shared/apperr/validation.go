package apperr

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation chuyển lỗi của ozzo-validation sang AppError VALIDATION
// Mỗi field lỗi sẽ nằm trong Details
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]interface{}, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			details[field] = fieldErr.Error()
		}
		return Validation("Validation failed", details)
	}

	// validation.InternalError: lỗi cấu hình rule, không phải input
	var internalErr validation.InternalError
	if errors.As(err, &internalErr) {
		return ErrInternal.Wrap(err)
	}

	return Validation(err.Error(), nil)
}

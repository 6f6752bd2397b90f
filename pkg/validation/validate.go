package validation

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("dateformat", validateDateFormat)
	_ = validate.RegisterValidation("recurring_type", validateRecurringType)
	_ = validate.RegisterValidation("gift_code", validateGiftCode)
}

// ValidateStruct validates a struct against its validation tags
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			return NewValidationError(errs)
		}
		return err
	}
	return nil
}

// validateDateFormat accepts calendar dates in YYYY-MM-DD form
func validateDateFormat(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// validateRecurringType accepts the supported recurrence kinds
func validateRecurringType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "none", "yearly":
		return true
	}
	return false
}

// validateGiftCode checks the INF-XXXX-XXXX shape without hitting storage
func validateGiftCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 13 {
		return false
	}
	if code[:4] != "INF-" || code[8] != '-' {
		return false
	}
	for _, r := range code[4:8] + code[9:] {
		switch {
		case r >= '2' && r <= '9':
		case r >= 'A' && r <= 'Z' && r != 'O' && r != 'I':
		default:
			return false
		}
	}
	return true
}

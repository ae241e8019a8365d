package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration against the struct-level validation
// tags and reports every violation, not just the first.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !isValidationErrors(err, &invalid) {
		return err
	}

	msgs := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

// describeFieldError renders one violation, naming the field by its
// lower-cased struct path below Config (e.g. "logging.level",
// "source.pagesize").
func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation rule %q", field, fe.Tag())
	}
}

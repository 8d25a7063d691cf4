package utils

import (
    "errors"
    "fmt"
    "strings"

    "github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct validates a struct based on its tags and flattens the
// validator errors into one readable message.
func ValidateStruct(s interface{}) error {
    err := validate.Struct(s)
    if err == nil {
        return nil
    }

    var messages []string
    var validationErrors validator.ValidationErrors
    if errors.As(err, &validationErrors) {
        for _, fe := range validationErrors {
            messages = append(messages, formatFieldError(fe))
        }
        return errors.New(strings.Join(messages, ", "))
    }
    return err
}

func formatFieldError(fe validator.FieldError) string {
    field := fe.Field()

    switch fe.Tag() {
    case "required":
        return fmt.Sprintf("%s is required", field)
    case "min":
        return fmt.Sprintf("%s must be at least %s", field, fe.Param())
    case "max":
        return fmt.Sprintf("%s must be at most %s", field, fe.Param())
    case "gt":
        return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
    case "oneof":
        return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
    default:
        return fmt.Sprintf("%s is invalid", field)
    }
}

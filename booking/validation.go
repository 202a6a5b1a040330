package booking

import (
	"strings"

	"github.com/go-playground/validator"
)

var validate = validator.New()

// FieldError is one stage-local validation failure, rendered inline per
// field. Validation runs synchronously before any network call.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// messages for the fields the form actually shows; anything else gets the
// generic required wording
var fieldMessages = map[string]string{
	"FirstName":   "First name is required",
	"LastName":    "Last name is required",
	"Email":       "Please enter a valid email address",
	"Phone":       "Please enter a valid 10 digit phone number",
	"DateOfBirth": "Date of birth is required",
	"Address":     "Address is required",
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Field() + " is required"
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConfirmPhrase is the literal the download confirmation field must match,
// compared case-insensitively after trimming.
const ConfirmPhrase = "CONFIRM"

func registerCustomRules(v *validator.Validate) error {
	return v.RegisterValidation("confirm_phrase", validateConfirmPhrase)
}

func validateConfirmPhrase(fl validator.FieldLevel) bool {
	return IsConfirmPhrase(fl.Field().String())
}

// IsConfirmPhrase reports whether s equals the confirmation phrase,
// ignoring surrounding whitespace and letter case.
func IsConfirmPhrase(s string) bool {
	return strings.ToUpper(strings.TrimSpace(s)) == ConfirmPhrase
}

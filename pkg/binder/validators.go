package binder

import (
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// absPathValidator ensures the value is an absolute filesystem path. Imports
// run in the server process, so relative paths would resolve against its
// working directory rather than anything the caller sees.
func absPathValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value != "" && filepath.IsAbs(value)
}

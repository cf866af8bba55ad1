package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ModelNamePattern accepts Anthropic model ids such as claude-3-5-haiku-latest
// or claude-sonnet-4-20250514
var ModelNamePattern = regexp.MustCompile(`^claude-[a-z0-9][a-z0-9.-]{1,62}$`)

// ValidateModelName validates that a settings model override is a Claude model id
func ValidateModelName(fl validator.FieldLevel) bool {
	return ModelNamePattern.MatchString(fl.Field().String())
}

// RegisterValidators registers all custom validators
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("model_name", ValidateModelName)
}

// New returns a validator with the custom validators registered
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

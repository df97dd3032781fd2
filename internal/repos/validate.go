package repos

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// namePattern lists the characters the remote API accepts in a repository name.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("reponame", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	})

	return v
}

// ValidName reports whether name is one or more letters, digits, '_', '.' or '-'.
func ValidName(name string) bool {
	return validate.Var(name, "required,reponame") == nil
}

// SuggestName returns an alternate name to offer after a name conflict.
func SuggestName(name string) string {
	return name + "-1"
}

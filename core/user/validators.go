package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classdesk/core"
)

var (
	roleTag  = "role"
	roleText = "role must be one of student or teacher"

	pwdMinLen     = 6
	pwdMinLenText = "password must contain at least 6 characters"
)

// InitValidators registers the user validators and their messages.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	validate.RegisterStructValidation(newUserStructValidation, NewUser{})
	core.RegisterCustomTranslation(validate, translator, "pwdminlen", pwdMinLenText)
}

// Validate cleans the credentials then checks them.
func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Clean()
	return validate.Struct(c)
}

// Validate cleans the new user's fields then checks them.
func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Clean()
	return validate.Struct(nu)
}

// Custom Validators

// roleValidation checks that the role is one of AllRoles.
func roleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).IsValid()
}

// newUserStructValidation reports short passwords with a friendlier message than `min`.
func newUserStructValidation(sl validator.StructLevel) {
	nu, ok := sl.Current().Interface().(NewUser)
	if !ok {
		return
	}
	if n := len([]rune(nu.Password)); n > 0 && n < pwdMinLen {
		sl.ReportError(nu.Password, "password", "Password", "pwdminlen", "")
	}
}

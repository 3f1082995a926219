package assignment

import (
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// InitValidators lets the validator see through Date so that `required` rejects a zero date.
func InitValidators(validate *validator.Validate, _ ut.Translator) {
	validate.RegisterCustomTypeFunc(dateValue, Date{})
}

func (f *Fields) Validate(validate *validator.Validate) error {
	f.Clean()
	return validate.Struct(f)
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

func dateValue(v reflect.Value) interface{} {
	if d, ok := v.Interface().(Date); ok && !d.IsZero() {
		return d.Time
	}
	return nil
}

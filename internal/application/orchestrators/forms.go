package orchestrators

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// checkForm validates a form struct and turns the first violation into a ValidationError
// naming the rule that failed.
func checkForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return invalid(fe.StructField(), "%s wajib diisi", fe.Field())
	case "eqfield":
		return invalid(fe.StructField(), "Konfirmasi password tidak cocok")
	case "max":
		return invalid(fe.StructField(), "%s maksimal %s karakter", fe.Field(), fe.Param())
	}
	return invalid(fe.StructField(), "%s tidak valid", fe.Field())
}

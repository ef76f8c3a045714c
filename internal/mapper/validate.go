package mapper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"erp-demo/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateAppUser checks a create or full-update payload.
func ValidateAppUser(dto *AppUserDTO) error {
	return validateDTO(domain.EntityAppUser, dto)
}

// ValidatePlaceholder checks a create or full-update payload.
func ValidatePlaceholder(dto *PlaceholderDTO) error {
	return validateDTO(domain.EntityPlaceholder, dto)
}

func validateDTO(entity string, dto any) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), reflect.TypeOf(dto).Elem().Name()+".")
	if fe.Tag() == "required" {
		return domain.ErrEntityValidation(entity, domain.KeyRequired, "%s is required", field)
	}
	return domain.ErrEntityValidation(entity, fe.Tag(), "%s failed %q validation", field, fe.Tag())
}

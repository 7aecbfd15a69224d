package checkout

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nexusagency/nexus-backend/pkg/enums"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
)

const ReasonInvalidField = "invalid_field"

// Customer identifies who is ordering.
type Customer struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Company   *string `json:"company,omitempty" validate:"omitempty,max=128"`
}

// Billing is the invoicing address.
type Billing struct {
	Address    string `json:"address" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required,max=16"`
	City       string `json:"city" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Normalize trims surrounding whitespace from every field.
func (c Customer) Normalize() Customer {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = trimOptional(c.Phone)
	c.Company = trimOptional(c.Company)
	return c
}

// Normalize trims surrounding whitespace from every field.
func (b Billing) Normalize() Billing {
	b.Address = strings.TrimSpace(b.Address)
	b.PostalCode = strings.TrimSpace(b.PostalCode)
	b.City = strings.TrimSpace(b.City)
	b.Country = strings.TrimSpace(b.Country)
	return b
}

// ValidateOrderForm checks customer, billing and payment method in that order
// and reports the first offending field in details.field.
func ValidateOrderForm(customer Customer, billing Billing, method enums.PaymentMethod) error {
	if err := validateStruct("customer", customer); err != nil {
		return err
	}
	if err := validateStruct("billing", billing); err != nil {
		return err
	}
	if !method.IsValid() {
		return fieldError("payment_method", "must be one of card, transfer, installments")
	}
	return nil
}

func validateStruct(prefix string, value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fieldError(prefix+"."+fe.Field(), fieldMessage(fe))
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, field+" "+message).WithDetails(map[string]any{
		"reason": ReasonInvalidField,
		"field":  field,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "is invalid"
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package checkout

import (
	"testing"

	"github.com/nexusagency/nexus-backend/pkg/enums"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
)

func validCustomer() Customer {
	return Customer{FirstName: "Camille", LastName: "Durand", Email: "camille@example.fr"}
}

func validBilling() Billing {
	return Billing{Address: "12 rue de la Paix", PostalCode: "75002", City: "Paris", Country: "France"}
}

func TestValidateOrderForm_Valid(t *testing.T) {
	if err := ValidateOrderForm(validCustomer(), validBilling(), enums.PaymentMethodCard); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateOrderForm_ReportsField(t *testing.T) {
	noEmail := validCustomer()
	noEmail.Email = ""
	badEmail := validCustomer()
	badEmail.Email = "not-an-email"
	noName := validCustomer()
	noName.FirstName = ""
	noCity := validBilling()
	noCity.City = ""
	noPostal := validBilling()
	noPostal.PostalCode = ""

	cases := []struct {
		name     string
		customer Customer
		billing  Billing
		method   enums.PaymentMethod
		field    string
	}{
		{"missing email", noEmail, validBilling(), enums.PaymentMethodCard, "customer.email"},
		{"malformed email", badEmail, validBilling(), enums.PaymentMethodCard, "customer.email"},
		{"missing first name", noName, validBilling(), enums.PaymentMethodCard, "customer.first_name"},
		{"missing city", validCustomer(), noCity, enums.PaymentMethodCard, "billing.city"},
		{"missing postal code", validCustomer(), noPostal, enums.PaymentMethodCard, "billing.postal_code"},
		{"unknown method", validCustomer(), validBilling(), enums.PaymentMethod("cash"), "payment_method"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateOrderForm(tc.customer, tc.billing, tc.method)
			typed := pkgerrors.As(err)
			if typed == nil {
				t.Fatalf("expected typed error, got %v", err)
			}
			if typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %s", typed.Code())
			}
			details, ok := typed.Details().(map[string]any)
			if !ok {
				t.Fatalf("expected map details, got %T", typed.Details())
			}
			if details["field"] != tc.field {
				t.Fatalf("expected field %q, got %v", tc.field, details["field"])
			}
		})
	}
}

func TestNormalizeTrimsAndDropsEmptyOptionals(t *testing.T) {
	blank := "   "
	c := Customer{FirstName: "  Camille ", LastName: "Durand", Email: " camille@example.fr ", Phone: &blank}.Normalize()
	if c.FirstName != "Camille" || c.Email != "camille@example.fr" {
		t.Fatalf("unexpected normalized customer %+v", c)
	}
	if c.Phone != nil {
		t.Fatalf("expected blank phone to be dropped")
	}
}

package checkout

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// Form is the checkout form as submitted by the shopper.
type Form struct {
	Email      string `json:"email" validate:"checkout_email"`
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	ZipCode    string `json:"zipCode" validate:"zipcode"`
	CardNumber string `json:"cardNumber" validate:"cardnumber"`
	ExpiryDate string `json:"expiryDate" validate:"expiry"`
	CVV        string `json:"cvv" validate:"cvv"`
}

const (
	MessageEmail   = "Please enter a valid email address"
	MessageName    = "Please enter your full name"
	MessageAddress = "Please fill in all address fields"
	MessageZipCode = "Please enter a valid 5-digit ZIP code"
	MessageCard    = "Please enter a valid 16-digit card number"
	MessageExpiry  = "Please enter a valid expiry date (MM/YY)"
	MessageCVV     = "Please enter a valid CVV"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cardPattern   = regexp.MustCompile(`^(\d{4}\s){3}\d{4}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	cvvPattern    = regexp.MustCompile(`^[0-9]{3,4}$`)
	zipPattern    = regexp.MustCompile(`^\d{5}$`)
)

// fieldChecks lists the form fields in the order they are reported.
var fieldChecks = []struct {
	field   string
	message string
}{
	{"email", MessageEmail},
	{"firstName", MessageName},
	{"lastName", MessageName},
	{"address", MessageAddress},
	{"city", MessageAddress},
	{"state", MessageAddress},
	{"zipCode", MessageZipCode},
	{"cardNumber", MessageCard},
	{"expiryDate", MessageExpiry},
	{"cvv", MessageCVV},
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
	for tag, pattern := range map[string]*regexp.Regexp{
		"checkout_email": emailPattern,
		"cardnumber":     cardPattern,
		"expiry":         expiryPattern,
		"cvv":            cvvPattern,
		"zipcode":        zipPattern,
	} {
		re := pattern
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
	return v
}

// Validate checks the form. The error message is the first failing rule in
// form order; details carry a message for every failing field.
func Validate(f Form) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}

	failed := make(map[string]bool, len(errs))
	for _, fe := range errs {
		failed[fe.Field()] = true
	}
	details := map[string]string{}
	message := ""
	for _, check := range fieldChecks {
		if !failed[check.field] {
			continue
		}
		details[check.field] = check.message
		if message == "" {
			message = check.message
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
}

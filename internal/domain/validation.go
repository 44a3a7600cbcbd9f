package domain

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"regexp"
	"strings"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	v := validator.New()
	v.RegisterValidation("status", validateStatus)
	v.RegisterValidation("currency", validateCurrency)
	v.RegisterStructValidation(validatePriceInfo, PriceInfo{})
	return &Validation{validator: v}
}

func validateStatus(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}

func validateCurrency(fl validator.FieldLevel) bool {
	// three upper-case letters, e.g. USD
	return currencyPattern.MatchString(fl.Field().String())
}

func validatePriceInfo(sl validator.StructLevel) {
	price := sl.Current().Interface().(PriceInfo)
	switch {
	case !ValidAmount(price.Amount):
		sl.ReportError(price.Amount, "Amount", "Amount", "amount", "")
	case price.Amount.IsNegative():
		sl.ReportError(price.Amount, "Amount", "Amount", "nonnegative", "")
	}
}

// ValidationError wraps the validator's FieldError
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (v ValidationError) Error() string {
	return fmt.Sprintf("Field '%s': %s", v.Field, v.Message)
}

// ValidationErrors is a slice of ValidationError
type ValidationErrors []ValidationError

// Errors converts the slice to a slice of strings
func (ve ValidationErrors) Errors() []string {
	errs := make([]string, 0, len(ve))
	for _, v := range ve {
		errs = append(errs, v.Error())
	}
	return errs
}

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	return strings.Join(ve.Errors(), "; ")
}

func (v *Validation) Validate(i interface{}) ValidationErrors {
	var errors ValidationErrors

	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}

	for _, ve := range validationErrors {
		errors = append(errors, ValidationError{
			Field:   ve.Namespace(),
			Message: fmt.Sprintf("failed on the '%s' tag", ve.Tag()),
		})
	}

	return errors
}

package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/referral-ledger/internal/models"

	"github.com/go-playground/validator/v10"
)

var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误字段使用 JSON 名称
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if money, ok := field.Interface().(models.Money); ok {
			return money.InexactFloat64()
		}
		return nil
	}, models.Money{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if rate, ok := field.Interface().(models.Rate); ok {
			return rate.InexactFloat64()
		}
		return nil
	}, models.Rate{})
	v.RegisterStructValidation(validateInvoiceScale, InvoiceInput{}, InvoicePatch{})
	return v
}

// validateInvoiceScale 金额最多 2 位小数，比例最多 4 位小数，超出时拒绝而非舍入
func validateInvoiceScale(sl validator.StructLevel) {
	var amount *models.Money
	var rate *models.Rate
	switch input := sl.Current().Interface().(type) {
	case InvoiceInput:
		amount, rate = input.Amount, input.BonusPercentage
	case InvoicePatch:
		amount, rate = input.Amount, input.BonusPercentage
	default:
		return
	}
	if amount != nil && !amount.FitsScale() {
		sl.ReportError(amount, "amount", "Amount", "decimals", "2")
	}
	if rate != nil && !rate.FitsScale() {
		sl.ReportError(rate, "bonusPercentage", "BonusPercentage", "decimals", "4")
	}
}

// validateInput 校验结构体并转换为 ValidationError
func validateInput(input interface{}) error {
	err := inputValidator.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalidInputError("invalid request", err.Error())
	}
	fields := make([]string, 0, len(fieldErrs))
	reasons := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		reasons = append(reasons, describeFieldError(fe))
	}
	return validationError(fields, strings.Join(reasons, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not be empty", fe.Field())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "decimals":
		return fmt.Sprintf("%s must have at most %s decimal places", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func trimStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

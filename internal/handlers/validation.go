package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/agromanage/agromanage/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var registerOnce sync.Once

// RegisterValidators teaches gin's validator the decimal comparison tags and
// makes it report JSON field names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})

		v.RegisterValidation("decimal_gte", decimalCompare(func(c int) bool { return c >= 0 }))
		v.RegisterValidation("decimal_gt", decimalCompare(func(c int) bool { return c > 0 }))
		v.RegisterValidation("decimal_lte", decimalCompare(func(c int) bool { return c <= 0 }))
	})
}

// decimalCompare checks the field against the tag parameter; ok receives
// the result of value.Cmp(bound).
func decimalCompare(ok func(cmp int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, isDecimal := fl.Field().Interface().(types.Decimal)
		if !isDecimal {
			return false
		}

		value, err := d.Parse()
		if err != nil {
			return false
		}

		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}

		return ok(value.Cmp(bound))
	}
}

// bindJSON decodes and validates the body. On failure it writes a 400 with
// one entry per failing field and returns false.
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors(err)})
		return false
	}
	return true
}

func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors

	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError

	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return []FieldError{{Field: field, Message: "must be of type " + typeErr.Type.String()}}
	}

	return []FieldError{{Field: "body", Message: "must be a valid JSON object"}}
}

// fieldPath strips the struct name from the validator namespace, leaving
// e.g. "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "eq":
		return "must be " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "numeric":
		return "must be numeric"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "decimal_gte":
		return "must be greater than or equal to " + fe.Param()
	case "decimal_gt":
		return "must be greater than " + fe.Param()
	case "decimal_lte":
		return "must be less than or equal to " + fe.Param()
	case "gtefield":
		return "must not be before " + toSnake(fe.Param())
	default:
		return "is invalid"
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

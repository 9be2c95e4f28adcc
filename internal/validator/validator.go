package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// TagPhone validates a phone number in international format for the
// configured country, e.g. +254712345678.
const TagPhone = "ke_phone"

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// Setup registers the validator with English translations on Gin's binding engine.
// countryCode is the dialling prefix without "+", e.g. "254".
// Call once during application startup.
func Setup(countryCode string) {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return
	}
	Register(v, countryCode)
}

// Register wires the tag name function, custom rules and translations into v.
func Register(v *govalidator.Validate, countryCode string) {
	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = fld.Tag.Get("form")
		}
		return name
	})

	phone := PhonePattern(countryCode)
	_ = v.RegisterValidation(TagPhone, func(fl govalidator.FieldLevel) bool {
		return phone.MatchString(fl.Field().String())
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	example := "+" + countryCode + "712345678"
	_ = v.RegisterTranslation(TagPhone, trans,
		func(ut ut.Translator) error {
			return ut.Add(TagPhone, "{0} must be a phone number like "+example, true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, _ := ut.T(TagPhone, fe.Field())
			return msg
		},
	)
}

// PhonePattern matches "+<countryCode>" followed by nine digits.
func PhonePattern(countryCode string) *regexp.Regexp {
	return regexp.MustCompile(`^\+` + regexp.QuoteMeta(countryCode) + `[0-9]{9}$`)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindQuery binds and validates query parameters into dst using form tags.
func BindQuery(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindQuery(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

package helper

import (
	"reflect"
	"strings"

	"autoinfo-cms/models"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

// NewHTTPHelper builds the helper with an English translator registered on
// the validator. Field names in messages are the JSON names.
func NewHTTPHelper(debug bool) *HTTPHelper {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}

	return &HTTPHelper{
		Validate:   validate,
		Translator: trans,
		Debug:      debug,
	}
}

func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// ValidateStruct runs the validate tags on s. A schema failure is returned
// as models.ErrorValidation keyed by field path, e.g. "media_items[0].url".
func (u *HTTPHelper) ValidateStruct(s interface{}) error {
	err := u.Validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := map[string][]string{}
	for _, fe := range validationErrors {
		key := fieldPath(fe.Namespace())
		fields[key] = append(fields[key], fe.Translate(u.Translator))
	}
	return models.ErrorValidation{Fields: fields}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

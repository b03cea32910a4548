package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/habitbuilder/internal/dto"
	"github.com/habitbuilder/internal/model"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// fieldMessages 以 "json字段.规则" 为键的校验提示
var fieldMessages = map[string]string{
	"name.required":             "Habit name cannot be blank",
	"name.max":                  "Habit name must have 1 to 255 characters",
	"frequency.required":        "Habit frequency cannot be null",
	"startDate.futureorpresent": "Start date of habit cannot be placed in the past",
	"endDate.future":            "End date of habit must be placed in the future",
	"owner.email":               "Owner must be the email of an existing user",
	"email.required":            "Email field cannot be blank",
	"email.email":               "Email must have the correct format",
	"username.required":         "Username field cannot be blank",
	"username.max":              "Username must be less than 30 characters",
	"firstName.min":             "First name must be in range from 2 to 30 characters",
	"firstName.max":             "First name must be in range from 2 to 30 characters",
	"lastName.min":              "Last name must be in a range from 2 to 50 characters",
	"lastName.max":              "Last name must be in a range from 2 to 50 characters",
	"age.min":                   "Age must not be a negative number",
}

// RegisterValidators installs the date rules and json field naming on gin's
// validator engine. Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}

		v.RegisterTagNameFunc(jsonFieldName)
		v.RegisterCustomTypeFunc(dateValue, model.Date{})
		if err := v.RegisterValidation("futureorpresent", futureOrPresent); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("future", future)
	})
	return registerErr
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func dateValue(field reflect.Value) any {
	if date, ok := field.Interface().(model.Date); ok {
		return date.Time()
	}
	return nil
}

func today() time.Time {
	return model.DateOf(dto.Now()).Time()
}

// futureOrPresent accepts today or any later day; unset dates pass.
func futureOrPresent(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.IsZero() || !t.Before(today())
}

// future accepts days strictly after today; unset dates pass.
func future(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.IsZero() || t.After(today())
}

// validateBody runs gin's validator over dst. A slice is validated element by
// element so every failing field is keyed by its index, e.g. "[1].name".
// fields is nil when dst is valid; err is set for non-validation failures.
func validateBody(dst any) (fields map[string]string, err error) {
	value := reflect.Indirect(reflect.ValueOf(dst))
	if value.Kind() != reflect.Slice {
		return collectErrors(binding.Validator.ValidateStruct(dst), "")
	}

	for i := 0; i < value.Len(); i++ {
		nested, err := collectErrors(binding.Validator.ValidateStruct(value.Index(i).Interface()), fmt.Sprintf("[%d].", i))
		if err != nil {
			return nil, err
		}
		for field, message := range nested {
			if fields == nil {
				fields = make(map[string]string)
			}
			fields[field] = message
		}
	}
	return fields, nil
}

// collectErrors maps validator output to prefix+field -> message.
func collectErrors(err error, prefix string) (map[string]string, error) {
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[prefix+fe.Field()] = messageFor(fe)
	}
	return fields, nil
}

func messageFor(fe validator.FieldError) string {
	if message, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return message
	}
	return fe.Field() + " failed the " + fe.Tag() + " rule"
}

package controllers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

type registerForm struct {
	Name     string `form:"name" validate:"required,max=1000"`
	Email    string `form:"email" validate:"required,email,max=100"`
	Password string `form:"password" validate:"required,max=72"`
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type postForm struct {
	Title    string `form:"title" validate:"required,max=250"`
	Subtitle string `form:"subtitle" validate:"required,max=250"`
	ImgURL   string `form:"img_url" validate:"required,url,max=250"`
	Body     string `form:"body" validate:"required"`
}

type commentForm struct {
	Body string `form:"body" validate:"required,max=5000"`
}

type contactForm struct {
	Name    string `form:"name" validate:"required,max=1000"`
	Email   string `form:"email" validate:"required,email"`
	Phone   string `form:"phone" validate:"max=50"`
	Message string `form:"message" validate:"required"`
}

// bind copies the posted values into dst by `form` tag and returns them for
// re-rendering. dst must be a pointer to a struct of string fields.
func bind(r *http.Request, dst any) (map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	values := make(map[string]string)
	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("form")
		val := r.PostForm.Get(name)
		if name != "body" && name != "message" {
			val = strings.TrimSpace(val)
		}
		v.Field(i).SetString(val)
		values[name] = val
	}
	delete(values, "password")
	return values, nil
}

// rejected is shown when a service refuses input the form rules let through.
func rejected() map[string]string {
	return map[string]string{"form": "Please check the form and try again."}
}

// formErrors maps field names to a message for each failed rule.
func formErrors(err error) map[string]string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return rejected()
	}
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "This field is required."
		case "email":
			out[fe.Field()] = "Please enter a valid email address."
		case "url":
			out[fe.Field()] = "Please enter a valid URL."
		case "max":
			out[fe.Field()] = "This is too long (maximum " + fe.Param() + " characters)."
		default:
			out[fe.Field()] = "This value is not valid."
		}
	}
	return out
}

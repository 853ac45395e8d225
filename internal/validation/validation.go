// Package validation checks user and post form input before it reaches the
// services. Failures are reported per field so forms can show them inline.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ReservedUsernames may not be registered, compared case-insensitively.
var ReservedUsernames = []string{"admin", "root", "system", "administrator"}

// ForbiddenTitleWords may not appear anywhere in a post title.
var ForbiddenTitleWords = []string{"spam", "advertisement", "promotion"}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// UserInput is the create/update form for a user.
type UserInput struct {
	Username string `form:"username" validate:"min=3,max=20,username_chars,not_reserved"`
	Email    string `form:"email" validate:"required,email"`
	Role     string `form:"role" validate:"oneof=user moderator admin"`
	Status   string `form:"status" validate:"oneof=active inactive suspended"`
}

// PostInput is the create/update form for a post.
type PostInput struct {
	Title    string `form:"title" validate:"min=5,max=100,no_forbidden_words"`
	Author   string `form:"author" validate:"required"`
	Category string `form:"category" validate:"oneof=development design accessibility"`
	Content  string `form:"content"`
	Status   string `form:"status" validate:"omitempty,oneof=draft published archived"`
}

// Errors maps form field names to a message. It is returned as an error when
// validation fails.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps a configured go-playground validator.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the console's custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("not_reserved", func(fl validator.FieldLevel) bool {
		name := strings.ToLower(fl.Field().String())
		for _, r := range ReservedUsernames {
			if name == r {
				return false
			}
		}
		return true
	})
	_ = v.RegisterValidation("no_forbidden_words", func(fl validator.FieldLevel) bool {
		title := fl.Field().String()
		for _, w := range ForbiddenTitleWords {
			if strings.Contains(title, w) {
				return false
			}
		}
		return true
	})
	return &Validator{v: v}
}

// User validates a user form.
func (v *Validator) User(in UserInput) error {
	return v.check(in)
}

// Post validates a post form.
func (v *Validator) Post(in PostInput) error {
	return v.check(in)
}

func (v *Validator) check(in any) error {
	err := v.v.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := Errors{}
	for _, fe := range fieldErrs {
		// Only the first failing rule of a field is reported.
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Field() + "." + fe.Tag() {
	case "username.min":
		return "Username must be at least 3 characters"
	case "username.max":
		return "Username must be at most 20 characters"
	case "username.username_chars":
		return "Only letters, digits and underscores are allowed"
	case "username.not_reserved":
		return "This username is already taken"
	case "email.required":
		return "Please enter an email address"
	case "email.email":
		return "Not a valid email address"
	case "title.min":
		return "Title must be at least 5 characters"
	case "title.max":
		return "Title must be at most 100 characters"
	case "title.no_forbidden_words":
		return "Title contains a forbidden word"
	case "author.required":
		return "Please enter an author"
	}
	if fe.Tag() == "oneof" {
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("Invalid value (%s)", fe.Tag())
}

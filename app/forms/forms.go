// Package forms binds and validates the blog's visitor input forms.
package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

// ValidationErrors maps a form field name to a message describing why its value
// was rejected.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// CommentForm is the form visitors fill in to comment on a post.
type CommentForm struct {
	Name  string `form:"name" json:"name" validate:"required,max=80"`
	Email string `form:"email" json:"email" validate:"required,email,max=254"`
	Body  string `form:"body" json:"body" validate:"required"`
}

// ShareForm is the form used to recommend a post by email.
type ShareForm struct {
	Name     string `form:"name" json:"name" validate:"required,max=25"`
	Email    string `form:"email" json:"email" validate:"required,email,max=254"`
	To       string `form:"to" json:"to" validate:"required,email,max=254"`
	Comments string `form:"comments" json:"comments"`
}

// SearchForm holds the free-text search query.
type SearchForm struct {
	Query string `form:"query" json:"query" validate:"required"`
}

// NewCommentForm binds a comment form from submitted values.
func NewCommentForm(values url.Values) *CommentForm {
	return &CommentForm{
		Name:  field(values, "name"),
		Email: field(values, "email"),
		Body:  field(values, "body"),
	}
}

// NewShareForm binds a share form from submitted values.
func NewShareForm(values url.Values) *ShareForm {
	return &ShareForm{
		Name:     field(values, "name"),
		Email:    field(values, "email"),
		To:       field(values, "to"),
		Comments: field(values, "comments"),
	}
}

// NewSearchForm binds a search form from query values.
func NewSearchForm(values url.Values) *SearchForm {
	return &SearchForm{Query: field(values, "query")}
}

// Clean trims surrounding whitespace from every field, as binding from
// submitted values does.
func (f *CommentForm) Clean() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Body = strings.TrimSpace(f.Body)
}

func (f *ShareForm) Clean() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.To = strings.TrimSpace(f.To)
	f.Comments = strings.TrimSpace(f.Comments)
}

func (f *SearchForm) Clean() { f.Query = strings.TrimSpace(f.Query) }

func (f *CommentForm) Validate() error { return check(f) }

func (f *ShareForm) Validate() error { return check(f) }

func (f *SearchForm) Validate() error { return check(f) }

// AsValidationErrors extracts field errors from err, if it carries any.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

func field(values url.Values, name string) string {
	return strings.TrimSpace(values.Get(name))
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate form: %w", err)
	}
	verrs := make(ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		verrs[fe.Field()] = message(fe)
	}
	return verrs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	default:
		return "Enter a valid value."
	}
}

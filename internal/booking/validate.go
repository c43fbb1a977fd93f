package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Issue describes one failing field/constraint pair.
type Issue struct {
	Path    []string `json:"path"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

// Field returns the wire name of the failing field, or "" for whole-record issues.
func (i Issue) Field() string {
	if len(i.Path) == 0 {
		return ""
	}
	return i.Path[0]
}

// Issues is an ordered list of validation issues.
type Issues []Issue

// Fields returns the distinct failing fields in issue order.
func (is Issues) Fields() []string {
	seen := make(map[string]struct{}, len(is))
	out := make([]string, 0, len(is))
	for _, issue := range is {
		f := issue.Field()
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func (is Issues) Error() string {
	parts := make([]string, 0, len(is))
	for _, issue := range is {
		if f := issue.Field(); f != "" {
			parts = append(parts, f+": "+issue.Message)
			continue
		}
		parts = append(parts, issue.Message)
	}
	return "booking: invalid request: " + strings.Join(parts, "; ")
}

type fieldRule struct {
	name string
	rule string
}

var (
	validate   = newValidator()
	fieldRules = rulesFor(reflect.TypeOf(Request{}))
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// rulesFor reads the wire name and validate tag of every field, in declaration order.
func rulesFor(t reflect.Type) []fieldRule {
	rules := make([]fieldRule, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		rules = append(rules, fieldRule{
			name: strings.SplitN(f.Tag.Get("json"), ",", 2)[0],
			rule: f.Tag.Get("validate"),
		})
	}
	return rules
}

// Validate checks an untyped candidate (typically decoded JSON) against the
// request schema. Every failing field is reported, in field declaration order.
// String values are trimmed; null counts as absent.
func Validate(candidate any) (Request, Issues) {
	obj, ok := candidate.(map[string]any)
	if !ok {
		return Request{}, Issues{{Path: []string{}, Code: "invalid_type", Message: "expected object"}}
	}

	var issues Issues
	values := make(map[string]string, len(fieldRules))
	for _, fr := range fieldRules {
		var value string
		if raw, present := obj[fr.name]; present && raw != nil {
			s, isString := raw.(string)
			if !isString {
				issues = append(issues, Issue{
					Path:    []string{fr.name},
					Code:    "invalid_type",
					Message: fmt.Sprintf("expected string, got %T", raw),
				})
				continue
			}
			value = strings.TrimSpace(s)
		}
		if err := validate.Var(value, fr.rule); err != nil {
			issues = append(issues, issueFromError(fr.name, err))
			continue
		}
		values[fr.name] = value
	}
	if len(issues) > 0 {
		return Request{}, issues
	}

	return Request{
		FirstName:     values[FieldFirstName],
		LastName:      values[FieldLastName],
		NationalID:    values[FieldNationalID],
		Phone:         values[FieldPhone],
		Email:         values[FieldEmail],
		Specialty:     values[FieldSpecialty],
		PreferredDate: values[FieldPreferredDate],
		TimeOfDay:     TimeOfDay(values[FieldTimeOfDay]),
		Comment:       values[FieldComment],
	}, nil
}

// Check re-validates an already typed request with the same rules.
func (r Request) Check() Issues {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Issues{{Path: []string{}, Code: "invalid", Message: err.Error()}}
	}
	issues := make(Issues, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, Issue{
			Path:    []string{fe.Field()},
			Code:    fe.Tag(),
			Message: describe(fe),
		})
	}
	return issues
}

func issueFromError(field string, err error) Issue {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return Issue{Path: []string{field}, Code: verrs[0].Tag(), Message: describe(verrs[0])}
	}
	return Issue{Path: []string{field}, Code: "invalid", Message: err.Error()}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

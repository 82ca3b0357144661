// Package validation holds the string predicates shared by every entity and the
// go-playground/validator tags built on top of them.
package validation

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// SpecialCharacters is the set rejected in person names. Hyphen and apostrophe are
// allowed so that names such as "Jean-Luc" or "O'Neil" remain valid.
const SpecialCharacters = "!\"#$%&()*+,./:;<=>?@[\\]^_`{|}~"

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)

func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func ContainsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func ContainsSpecialCharacter(s string) bool {
	return strings.ContainsAny(s, SpecialCharacters)
}

func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsAbsoluteURL reports whether s parses as a URL with both a scheme and a host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != ""
}

// ContainsGithubSpecialCharacter reports whether s holds any character outside
// [a-zA-Z0-9_-].
func ContainsGithubSpecialCharacter(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return true
		}
	}
	return false
}

func IsLettersAndSpaces(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// PersonName returns the first rule a first or last name breaks, or "" when valid.
func PersonName(s string) string {
	switch {
	case IsBlank(s):
		return "must not be blank"
	case ContainsDigit(s):
		return "must not contain digits"
	case ContainsSpecialCharacter(s):
		return "must not contain special characters"
	}
	return ""
}

func Email(s string) string {
	switch {
	case IsBlank(s):
		return "must not be blank"
	case !IsValidEmail(s):
		return "is not a valid email"
	}
	return ""
}

func GithubName(s string) string {
	switch {
	case IsBlank(s):
		return "must not be blank"
	case ContainsGithubSpecialCharacter(s):
		return "may only contain letters, digits, '-' and '_'"
	}
	return ""
}

// Tags are the domain rules available to request DTOs.
var Tags = map[string]validator.Func{
	"personname": func(fl validator.FieldLevel) bool {
		return PersonName(fl.Field().String()) == ""
	},
	"githubname": func(fl validator.FieldLevel) bool {
		return GithubName(fl.Field().String()) == ""
	},
	"absurl": func(fl validator.FieldLevel) bool {
		return IsAbsoluteURL(fl.Field().String())
	},
	"lettersspaces": func(fl validator.FieldLevel) bool {
		return IsLettersAndSpaces(fl.Field().String())
	},
}

// Register adds every tag in tags to v.
func Register(v *validator.Validate, tags map[string]validator.Func) error {
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register validation tag %q: %w", tag, err)
		}
	}
	return nil
}

// New returns a validator that reports json field names and knows Tags.
// It panics if a tag cannot be registered.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := Register(v, Tags); err != nil {
		panic(err)
	}
	return v
}

package helpers

import (
	"net/url"
	"strings"

	errors "github.com/zgalor/weberr"
)

// ValidateRule is a single deferred validation check
type ValidateRule func() error

// Validate runs the rules in order and returns the first failure
func Validate(rules []ValidateRule) error {
	for _, rule := range rules {
		if err := rule(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStringFieldNotEmpty fails when the field is missing or empty
func ValidateStringFieldNotEmpty(param *string, name string) ValidateRule {
	return func() error {
		if param == nil {
			return errors.BadRequest.UserErrorf("Missing field '%s'", name)
		}
		if len(*param) == 0 {
			return errors.BadRequest.UserErrorf("Field '%s' is empty", name)
		}
		return nil
	}
}

// ValidateOneOf fails when value is not one of the allowed values
func ValidateOneOf(value, name string, allowed ...string) ValidateRule {
	return func() error {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return errors.BadRequest.UserErrorf("Field '%s' must be one of [%s], got '%s'",
			name, strings.Join(allowed, ", "), value)
	}
}

// ValidateHTTPURL fails unless raw is an absolute http(s) URL
func ValidateHTTPURL(raw, name string) ValidateRule {
	return func() error {
		u, err := url.Parse(raw)
		if err != nil {
			return errors.BadRequest.UserErrorf("Field '%s' is not a valid URL: %v", name, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.BadRequest.UserErrorf("Field '%s' must be an absolute http(s) URL", name)
		}
		return nil
	}
}

// IsValidHTTPURL reports whether raw passes ValidateHTTPURL
func IsValidHTTPURL(raw string) bool {
	return ValidateHTTPURL(raw, "url")() == nil
}

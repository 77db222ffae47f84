package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldValidationError is a validation failure on one request field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors collects the failures of a whole request
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Add records a failure on field
func (e *FieldValidationErrors) Add(field, message string) {
	*e = append(*e, FieldValidationError{Field: field, Message: message})
}

// Messages returns just the messages, in order
func (e FieldValidationErrors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, err := range e {
		out = append(out, err.Message)
	}
	return out
}

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	jsEventRegex = regexp.MustCompile(`(?i)on\w+="[^"]*"`)

	xssPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on(load|error|click)=`),
		regexp.MustCompile(`(?i)document\.(cookie|write)`),
	}
)

// SanitizeString strips markup from free text such as NFT names and descriptions
func SanitizeString(input string) string {
	sanitized := htmlTagRegex.ReplaceAllString(input, "")
	sanitized = jsEventRegex.ReplaceAllString(sanitized, "")
	return strings.TrimSpace(html.UnescapeString(sanitized))
}

// ValidateXSS rejects input carrying script payloads
func ValidateXSS(input string) (bool, string) {
	for _, p := range xssPatterns {
		if p.MatchString(input) {
			return false, "Input contains disallowed markup"
		}
	}
	return true, ""
}

// ValidateEmail checks the address shape
func ValidateEmail(email string) (bool, string) {
	if email == "" {
		return false, "Email is required"
	}
	if !emailRegex.MatchString(email) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ValidatePassword enforces the minimum password length
func ValidatePassword(password string) (bool, string) {
	if password == "" {
		return false, "Password is required"
	}
	if len(password) < MinPasswordLength {
		return false, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}
	return true, ""
}

// ValidatePrice rejects negative prices
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}

// ValidateStringLength checks that str has between min and max characters
func ValidateStringLength(str string, min, max int) error {
	n := len([]rune(str))
	if n < min || n > max {
		return fmt.Errorf("length must be between %d and %d characters", min, max)
	}
	return nil
}

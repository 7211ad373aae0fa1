package web

import (
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	postcodePattern = regexp.MustCompile(`(?i)^[A-Z]{1,2}\d[A-Z\d]?\s*\d[A-Z]{2}$`)
)

// validateAcceptView checks the tribunal view form selection and returns an error message, if any
func validateAcceptView(value string) string {
	if value != "yes" && value != "no" {
		return "Select yes if you accept the tribunal's view"
	}
	return ""
}

// validateEmail checks an email address form field and returns an error message, if any
func validateEmail(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Enter an email address"
	}
	if !emailPattern.MatchString(value) {
		return "Enter an email address in the correct format"
	}
	return ""
}

// validatePostcode checks a UK postcode form field and returns an error message, if any
func validatePostcode(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Enter your postcode"
	}
	if !postcodePattern.MatchString(strings.TrimSpace(value)) {
		return "Enter a valid postcode"
	}
	return ""
}

// validateRequired checks that a form field is filled in and returns the given message if it is not
func validateRequired(value, message string) string {
	if strings.TrimSpace(value) == "" {
		return message
	}
	return ""
}

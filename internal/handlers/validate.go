package handlers

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z\s]{2,60}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func isNameValid(name string) bool {
	return nameRe.MatchString(strings.TrimSpace(name))
}

func isEmailValid(email string) bool {
	return emailRe.MatchString(email)
}

// isPasswordStrong requires at least 8 characters with a lowercase, an
// uppercase, a digit and a non-alphanumeric character.
func isPasswordStrong(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}

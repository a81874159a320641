package entity

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
)

// Credential and profile limits
const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
	PasswordMinLength = 6
	PasswordMaxBytes  = 72
	FullNameMinLength = 1
	FullNameMaxLength = 100
)

// NormalizeUsername case-folds a username; usernames are compared case-insensitively
func NormalizeUsername(username string) string {
	return strings.ToLower(username)
}

// ValidateUsername checks length and that the username consists of letters,
// digits and underscores with at least one letter or digit
func ValidateUsername(username string) error {
	length := utf8.RuneCountInString(username)
	if length < UsernameMinLength || length > UsernameMaxLength {
		return errs.NewValidationError("username",
			fmt.Sprintf("must be between %d and %d characters", UsernameMinLength, UsernameMaxLength))
	}

	alnum := 0
	for _, r := range username {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			alnum++
		case r == '_':
		default:
			return errs.NewValidationError("username", "must contain only letters, numbers, and underscores")
		}
	}
	if alnum == 0 {
		return errs.NewValidationError("username", "must contain at least one letter or number")
	}
	return nil
}

// ValidateLoginUsername applies the lighter checks used at login time
func ValidateLoginUsername(username string) error {
	if utf8.RuneCountInString(username) < UsernameMinLength {
		return errs.NewValidationError("username",
			fmt.Sprintf("must be at least %d characters", UsernameMinLength))
	}
	return nil
}

// ValidatePassword checks the password length for a new credential. bcrypt
// only accepts up to PasswordMaxBytes bytes of input.
func ValidatePassword(password string) error {
	if err := ValidateLoginPassword(password); err != nil {
		return err
	}
	if len(password) > PasswordMaxBytes {
		return errs.NewValidationError("password",
			fmt.Sprintf("must be at most %d bytes", PasswordMaxBytes))
	}
	return nil
}

// ValidateLoginPassword checks only the minimum length so that existing
// credentials remain usable
func ValidateLoginPassword(password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return errs.NewValidationError("password",
			fmt.Sprintf("must be at least %d characters", PasswordMinLength))
	}
	return nil
}

// NormalizeFullName trims surrounding whitespace from a display name
func NormalizeFullName(fullName string) string {
	return strings.TrimSpace(fullName)
}

// ValidateFullName checks the display name length
func ValidateFullName(fullName string) error {
	length := utf8.RuneCountInString(fullName)
	if length < FullNameMinLength || length > FullNameMaxLength {
		return errs.NewValidationError("full_name",
			fmt.Sprintf("must be between %d and %d characters", FullNameMinLength, FullNameMaxLength))
	}
	return nil
}

package authform

import (
	"regexp"
)

// MinPasswordLength is the shortest password the auth service accepts.
const MinPasswordLength = 6

var reEmail = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// PasswordValid is a local pre-check; the server stays authoritative.
func PasswordValid(password string) bool {
	return len(password) >= MinPasswordLength
}

// EmailValid is a local pre-check; the server stays authoritative.
func EmailValid(email string) bool {
	return reEmail.MatchString(email)
}

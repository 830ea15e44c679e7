package authform

import "strconv"

// Code is a numeric status code returned by the auth API in the `code` field
// of a failure payload.
type Code int

const (
	CodeUnknown Code = 0

	// bad request
	CodePasswordReused   Code = 400003
	CodeValidationFailed Code = 400999

	// unauthorized
	CodeBadCredentials  Code = 401001
	CodeInactiveAccount Code = 401002
	CodeGuestNotAllowed Code = 401004

	// forbidden
	CodeGuestDisabled Code = 403001

	// not found
	CodeResetTokenGone  Code = 404001
	CodeAccountNotFound Code = 404002
)

var knownCodes = map[Code]string{
	CodePasswordReused:   "password-reused",
	CodeValidationFailed: "validation-failed",
	CodeBadCredentials:   "bad-credentials",
	CodeInactiveAccount:  "inactive-account",
	CodeGuestNotAllowed:  "guest-not-allowed",
	CodeGuestDisabled:    "guest-disabled",
	CodeResetTokenGone:   "reset-token-gone",
	CodeAccountNotFound:  "account-not-found",
}

// ParseCode maps a raw number onto the closed set of codes. Numbers outside
// the set come back as CodeUnknown.
func ParseCode(raw int) Code {
	if _, ok := knownCodes[Code(raw)]; ok {
		return Code(raw)
	}
	return CodeUnknown
}

func (c Code) Known() bool {
	_, ok := knownCodes[c]
	return ok
}

func (c Code) String() string {
	if name, ok := knownCodes[c]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(c)) + ")"
}

package authform

import (
	"testing"

	"github.com/n10ty/authform/i18n"
	"github.com/stretchr/testify/assert"
)

var en = i18n.New("en")

func TestResolveKnownCode(t *testing.T) {
	got := LoginTable().Resolve(en, &Failure{HasCode: true, Raw: 401001, Code: CodeBadCredentials})
	assert.Equal(t, []string{i18n.BadCredentials}, got)

	got = LoginTable().Resolve(i18n.New("id"), &Failure{HasCode: true, Raw: 401002, Code: CodeInactiveAccount})
	assert.Equal(t, []string{"user non aktif tidak dapat login"}, got)
}

func TestResolveCodeForeignToPage(t *testing.T) {
	// a known code the page has no message for is still a technical error
	got := LoginTable().Resolve(en, &Failure{HasCode: true, Raw: 403001, Code: CodeGuestDisabled})
	assert.Equal(t, []string{"Technical error (code 403001), please contact support"}, got)
}

func TestResolveUnknownCodeShowsNumber(t *testing.T) {
	got := LoginTable().Resolve(en, &Failure{HasCode: true, Raw: 999999, Code: CodeUnknown})
	assert.Len(t, got, 1)
	assert.Contains(t, got[0], "999999")
}

func TestResolveValidation(t *testing.T) {
	f := &Failure{HasCode: true, Raw: 400999, Code: CodeValidationFailed, Fields: FieldErrors{
		{Field: "email", Issues: []Issue{{Tag: "required"}, {Tag: "email"}}},
		{Field: "nickname", Issues: []Issue{{Tag: "required"}}},
		{Field: "password", Issues: []Issue{{Tag: "min", Param: "6"}}},
	}}
	got := LoginTable().Resolve(en, f)
	assert.Equal(t, []string{i18n.EmailRequired, i18n.EmailInvalid, i18n.InvalidInput}, got)
}

func TestResolveValidationWithoutFields(t *testing.T) {
	f := &Failure{HasCode: true, Raw: 400999, Code: CodeValidationFailed}
	assert.Equal(t, []string{i18n.InvalidInput}, LoginTable().Resolve(en, f))

	// a known field without issues has nothing to show
	f.Fields = FieldErrors{{Field: "email"}}
	assert.Empty(t, LoginTable().Resolve(en, f))
}

func TestResolveMalformedAndCodeless(t *testing.T) {
	assert.Equal(t, []string{i18n.TechnicalError}, NewTable().Resolve(en, &Failure{Malformed: true}))
	assert.Nil(t, NewTable().Resolve(en, &Failure{Status: 500}))
}

func TestPageTables(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
		code  Code
		want  string
	}{
		{"guest bad credentials", GuestLoginTable(), CodeBadCredentials, i18n.BadCredentials},
		{"guest inactive", GuestLoginTable(), CodeInactiveAccount, i18n.InactiveAccount},
		{"guest not allowed", GuestLoginTable(), CodeGuestNotAllowed, i18n.GuestNotAllowed},
		{"guest disabled", GuestLoginTable(), CodeGuestDisabled, i18n.GuestDisabled},
		{"account not found", ForgotPasswordTable(), CodeAccountNotFound, i18n.AccountNotFound},
		{"reset token gone", ResetPasswordTable(), CodeResetTokenGone, i18n.ResetTokenGone},
		{"reset account not found", ResetPasswordTable(), CodeAccountNotFound, i18n.AccountNotFound},
		{"password reused", PasswordChangeTable(), CodePasswordReused, i18n.PasswordReused},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.table.Resolve(en, &Failure{HasCode: true, Raw: int(tt.code), Code: tt.code})
			assert.Equal(t, []string{tt.want}, got)
		})
	}

	f := &Failure{HasCode: true, Raw: 400999, Code: CodeValidationFailed, Fields: FieldErrors{
		{Field: "confirmPassword", Issues: []Issue{{Tag: "eqfield", Param: "Password"}}},
	}}
	assert.Equal(t, []string{i18n.ConfirmPasswordMismatch}, PasswordChangeTable().Resolve(en, f))
}

func TestResolveUnexpectedField(t *testing.T) {
	f := decodeFailure(400, []byte(`{"code":400999,"message":{"unexpectedField":[{"tag":"required"}]}}`))
	assert.Equal(t, []string{i18n.InvalidInput}, LoginTable().Resolve(en, f))

	f = decodeFailure(400, []byte(`{"code":400999,"message":{"email":[{"tag":"email"}]}}`))
	assert.Equal(t, []string{i18n.EmailInvalid}, LoginTable().Resolve(en, f))
}

func TestResolveValidationTable(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
		body  string
		want  []string
	}{
		{
			"unknown field with several issues shows one message",
			LoginTable(),
			`{"code":400999,"message":{"unexpectedField":[{"tag":"required"},{"tag":"min"}]}}`,
			[]string{i18n.InvalidInput},
		},
		{
			"every unknown field shows its own message",
			LoginTable(),
			`{"code":400999,"message":{"nickname":[{"tag":"required"}],"email":[{"tag":"required"}],"captcha":[{"tag":"len"},{"tag":"required"}]}}`,
			[]string{i18n.InvalidInput, i18n.EmailRequired, i18n.InvalidInput},
		},
		{
			"known field with unknown tag shows nothing",
			PasswordChangeTable(),
			`{"code":400999,"message":{"password":[{"tag":"min"}]}}`,
			nil,
		},
		{
			"unknown tags are skipped next to known ones",
			PasswordChangeTable(),
			`{"code":400999,"message":{"password":[{"tag":"min"},{"tag":"required"}],"confirmPassword":[{"tag":"eqfield"}]}}`,
			[]string{i18n.PasswordRequired, i18n.ConfirmPasswordMismatch},
		},
		{
			"reset page knows the token field",
			ResetPasswordTable(),
			`{"code":400999,"message":{"token":[{"tag":"required"}],"email":[{"tag":"email"}]}}`,
			[]string{i18n.TokenRequired, i18n.InvalidInput},
		},
		{
			"email not found on the reset page",
			ResetPasswordTable(),
			`{"code":404002,"message":"email not found"}`,
			[]string{i18n.AccountNotFound},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.table.Resolve(en, decodeFailure(400, []byte(tt.body)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCodeAsWritten(t *testing.T) {
	tests := []struct {
		body string
		want []string
	}{
		{`{"code":0,"message":"nothing"}`, nil},
		{`{"code":"","message":"nothing"}`, nil},
		{`{"code":false}`, nil},
		{`{"code":null}`, nil},
		{`{"code":"E42"}`, []string{"Technical error (code E42), please contact support"}},
		{`{"code":"401001"}`, []string{"Technical error (code 401001), please contact support"}},
		{`{"code":401001.5}`, []string{"Technical error (code 401001.5), please contact support"}},
		{`{"code":401001.0}`, []string{i18n.BadCredentials}},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, LoginTable().Resolve(en, decodeFailure(401, []byte(tt.body))))
		})
	}

	got := LoginTable().Resolve(i18n.New("id"), decodeFailure(500, []byte(`{"code":"E42"}`)))
	assert.Equal(t, []string{"ada kesalahan teknis, error #E42"}, got)
}

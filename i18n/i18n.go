// Package i18n holds the user-facing messages shown as toasts by the auth
// forms, in Indonesian (the default) and English.
package i18n

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. Each key is also the English source string.
const (
	TechnicalError    = "Technical error, please try again later"
	TechnicalErrorFor = "Technical error (code %s), please contact support"
	InvalidInput      = "Invalid input"

	BadCredentials  = "Wrong email or password"
	InactiveAccount = "Your account is not active"
	GuestNotAllowed = "This account cannot login as guest"
	GuestDisabled   = "Guest login is disabled"
	ResetTokenGone  = "The reset password link is invalid or has expired"
	AccountNotFound = "Email is not registered"
	PasswordReused  = "New password must be different from the current password"

	EmailRequired           = "Email is required"
	EmailInvalid            = "Email format is invalid"
	PasswordRequired        = "Password is required"
	ConfirmPasswordRequired = "Password confirmation is required"
	ConfirmPasswordMismatch = "Password confirmation does not match"
	TokenRequired           = "Token is required"

	ResetLinkSent = "Reset password link has been sent, please check your email"
	PasswordReset = "Password has been reset successfully"

	SessionExpired = "Session has expired, please login again"
)

var indonesian = map[string]string{
	TechnicalError:    "ada kesalahan teknis",
	TechnicalErrorFor: "ada kesalahan teknis, error #%s",
	InvalidInput:      "data yang diinput tidak valid",

	BadCredentials:  "email atau password salah",
	InactiveAccount: "user non aktif tidak dapat login",
	GuestNotAllowed: "akun ini tidak dapat login sebagai tamu",
	GuestDisabled:   "login tamu tidak diaktifkan",
	ResetTokenGone:  "token tidak ditemukan, atau token sudah kadaluwarsa",
	AccountNotFound: "email tidak ditemukan!",
	PasswordReused:  "anda tidak dapat menggunakan password yang sama!",

	EmailRequired:           "email wajib diisi!",
	EmailInvalid:            "email harus diisi dengan alamat email yang valid!",
	PasswordRequired:        "password wajib diisi!",
	ConfirmPasswordRequired: "konfirmasi password wajib diisi!",
	ConfirmPasswordMismatch: "konfirmasi password tidak sama!",
	TokenRequired:           "token dari email wajib disertakan!",

	ResetLinkSent: "email untuk reset password sudah terkirim",
	PasswordReset: "password tersimpan",

	SessionExpired: "Sesi telah berakhir, silahkan login ulang!",
}

var english = []string{
	TechnicalError, TechnicalErrorFor, InvalidInput,
	BadCredentials, InactiveAccount, GuestNotAllowed, GuestDisabled,
	ResetTokenGone, AccountNotFound, PasswordReused,
	EmailRequired, EmailInvalid, PasswordRequired,
	ConfirmPasswordRequired, ConfirmPasswordMismatch, TokenRequired,
	ResetLinkSent, PasswordReset,
	SessionExpired,
}

// Default is the language used when none, or an unsupported one, is asked for.
var Default = language.Indonesian

var (
	once    sync.Once
	cat     *catalog.Builder
	matcher language.Matcher
)

func build() {
	cat = catalog.NewBuilder(catalog.Fallback(Default))
	for key, msg := range indonesian {
		_ = cat.SetString(language.Indonesian, key, msg)
	}
	for _, key := range english {
		_ = cat.SetString(language.English, key, key)
	}
	matcher = language.NewMatcher([]language.Tag{language.Indonesian, language.English})
}

// Printer renders message keys in one language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a Printer for lang, a BCP 47 tag such as "id" or "en-US".
// Unknown or malformed tags fall back to Default.
func New(lang string) *Printer {
	once.Do(build)
	tag := Default
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = []language.Tag{language.Indonesian, language.English}[idx]
			}
		}
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Sprintf renders key with args.
func (p *Printer) Sprintf(key string, args ...interface{}) string {
	return p.p.Sprintf(key, args...)
}

func (p *Printer) Language() language.Tag {
	return p.tag
}

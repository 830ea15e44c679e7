package authform

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/n10ty/authform/i18n"
	"github.com/n10ty/authform/token"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// form field names posted by the auth pages
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldRemember        = "remember"
)

// validation tags the server reports for CodeValidationFailed
const (
	TagRequired = "required"
	TagEmail    = "email"
	TagEqField  = "eqfield"
)

// Client drives the auth pages: each method opens a page, fills its form
// and submits it through the guarded submitter.
type Client struct {
	Browser   *Browser
	Submitter *Submitter
	Routes    Routes
	Elements  Elements
	Delays    Delays

	notifier Notifier
	logger   log.FieldLogger
}

type clientOptions struct {
	notifier Notifier
	logger   log.FieldLogger
	http     *http.Client
}

type ClientOption func(*clientOptions)

func WithClientNotifier(n Notifier) ClientOption {
	return func(o *clientOptions) { o.notifier = n }
}

func WithClientLogger(l log.FieldLogger) ClientOption {
	return func(o *clientOptions) { o.logger = l }
}

// WithClientHTTP sets the HTTP client the browser sends requests with.
func WithClientHTTP(c *http.Client) ClientOption {
	return func(o *clientOptions) { o.http = c }
}

func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.StandardLogger()
	}
	if o.notifier == nil {
		o.notifier = LogNotifier{Logger: o.logger}
	}
	if o.http == nil {
		o.http = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		Routes:   cfg.Routes,
		Elements: cfg.Elements,
		Delays:   cfg.Delays,
		notifier: o.notifier,
		logger:   o.logger,
	}
	browser, err := NewBrowser(cfg.BaseURL,
		WithHTTPClient(o.http),
		WithBrowserLogger(o.logger),
		OnPage(c.showInfo),
	)
	if err != nil {
		return nil, err
	}
	c.Browser = browser
	c.Submitter = NewSubmitter(browser,
		WithNotifier(o.notifier),
		WithPrinter(i18n.New(cfg.Language)),
		WithNavigator(browser),
		WithLogger(o.logger),
	)
	return c, nil
}

// showInfo shows the messages a freshly loaded page carries.
func (c *Client) showInfo(p *Page) {
	msgs, err := p.InfoMessages()
	if err != nil {
		c.logger.WithError(err).WithField("url", p.URL.String()).Warn("unreadable page info messages")
		return
	}
	for _, m := range msgs {
		c.notifier.Notify(Notification{Level: LevelInfo, Message: m})
	}
}

func LoginTable() *Table {
	return NewTable().
		On(CodeBadCredentials, i18n.BadCredentials).
		On(CodeInactiveAccount, i18n.InactiveAccount).
		OnField(FieldEmail, TagRequired, i18n.EmailRequired).
		OnField(FieldEmail, TagEmail, i18n.EmailInvalid).
		OnField(FieldPassword, TagRequired, i18n.PasswordRequired)
}

func GuestLoginTable() *Table {
	return NewTable().
		On(CodeBadCredentials, i18n.BadCredentials).
		On(CodeInactiveAccount, i18n.InactiveAccount).
		On(CodeGuestNotAllowed, i18n.GuestNotAllowed).
		On(CodeGuestDisabled, i18n.GuestDisabled)
}

func ForgotPasswordTable() *Table {
	return NewTable().
		On(CodeAccountNotFound, i18n.AccountNotFound).
		OnField(FieldEmail, TagRequired, i18n.EmailRequired).
		OnField(FieldEmail, TagEmail, i18n.EmailInvalid)
}

// ResetPasswordTable has no email entries: the email comes with the reset
// link, so any issue with it is invalid input.
func ResetPasswordTable() *Table {
	return passwordTable(NewTable().
		On(CodeResetTokenGone, i18n.ResetTokenGone).
		On(CodeAccountNotFound, i18n.AccountNotFound)).
		OnField(FieldToken, TagRequired, i18n.TokenRequired)
}

func PasswordChangeTable() *Table {
	return passwordTable(NewTable().On(CodePasswordReused, i18n.PasswordReused))
}

func passwordTable(t *Table) *Table {
	return t.
		OnField(FieldPassword, TagRequired, i18n.PasswordRequired).
		OnField(FieldConfirmPassword, TagRequired, i18n.ConfirmPasswordRequired).
		OnField(FieldConfirmPassword, TagEqField, i18n.ConfirmPasswordMismatch)
}

// Login submits the login form and, on success, the token form with the
// issued token.
func (c *Client) Login(ctx context.Context, email, password string, remember bool) (Result, error) {
	page, err := c.Browser.Open(ctx, c.Routes.Login)
	if err != nil {
		return nil, err
	}
	form, err := page.Form(c.Elements.LoginForm)
	if err != nil {
		return nil, err
	}
	if err := fill(form, FieldEmail, email, FieldPassword, password); err != nil {
		return nil, err
	}
	if form.Field(FieldRemember) != nil {
		_ = form.Set(FieldRemember, boolValue(remember))
	}
	target, err := page.Form(c.Elements.SubmitTokenForm)
	if err != nil {
		return nil, err
	}
	return c.Submitter.Submit(ctx, &Submission{
		Form:        form,
		Linked:      page.Forms(c.Elements.GuestLoginForm),
		Affordances: page.Affordances(c.Elements.ForgotPasswordLink),
		Table:       LoginTable(),
		FollowUp:    Chain(target),
	})
}

// GuestLogin submits the guest login form, which shares the login page.
func (c *Client) GuestLogin(ctx context.Context) (Result, error) {
	page, err := c.Browser.Open(ctx, c.Routes.Login)
	if err != nil {
		return nil, err
	}
	form, err := page.Form(c.Elements.GuestLoginForm)
	if err != nil {
		return nil, err
	}
	target, err := page.Form(c.Elements.SubmitTokenForm)
	if err != nil {
		return nil, err
	}
	return c.Submitter.Submit(ctx, &Submission{
		Form:        form,
		Linked:      page.Forms(c.Elements.LoginForm),
		Affordances: page.Affordances(c.Elements.ForgotPasswordLink),
		Table:       GuestLoginTable(),
		FollowUp:    Chain(target),
	})
}

// ForgotPassword asks for a reset link and goes back to the login page.
func (c *Client) ForgotPassword(ctx context.Context, email string) (Result, error) {
	page, err := c.Browser.Open(ctx, c.Routes.ForgotPassword)
	if err != nil {
		return nil, err
	}
	form, err := page.Form(c.Elements.ForgotPasswordForm)
	if err != nil {
		return nil, err
	}
	if err := form.Set(FieldEmail, email); err != nil {
		return nil, err
	}
	link, err := page.Link(c.Elements.LoginLink)
	if err != nil {
		// pages without the link still lead back to login
		link, err = page.Resolve(c.Routes.Login)
		if err != nil {
			return nil, err
		}
	}
	return c.Submitter.Submit(ctx, &Submission{
		Form:        form,
		Affordances: page.Affordances(c.Elements.LoginLink),
		Table:       ForgotPasswordTable(),
		FollowUp:    NotifyThenNavigate(i18n.ResetLinkSent, c.Delays.ForgotPassword, link),
	})
}

// ResetPassword opens the reset link from the email and sets a new
// password. The server answers with a token that logs the user in.
func (c *Client) ResetPassword(ctx context.Context, link, password, confirm string) (Result, error) {
	if link == "" {
		link = c.Routes.ResetPassword
	}
	page, err := c.Browser.Open(ctx, link)
	if err != nil {
		return nil, err
	}
	form, err := page.Form(c.Elements.ResetPasswordForm)
	if err != nil {
		return nil, err
	}
	if err := fill(form, FieldPassword, password, FieldConfirmPassword, confirm); err != nil {
		return nil, err
	}
	target, err := page.Form(c.Elements.SubmitTokenForm)
	if err != nil {
		return nil, err
	}
	return c.Submitter.Submit(ctx, &Submission{
		Form:     form,
		Table:    ResetPasswordTable(),
		FollowUp: NotifyThenChain(i18n.PasswordReset, c.Delays.ResetPassword, target),
	})
}

// ChangePassword changes the password of the logged in user with the bearer
// token the page embeds. On success the page leaves at once for its redirect
// path, without a toast.
func (c *Client) ChangePassword(ctx context.Context, password, confirm string) (Result, error) {
	page, err := c.Browser.Open(ctx, c.Routes.RenewPassword)
	if err != nil {
		return nil, err
	}
	form, err := page.Form(c.Elements.PasswordChangeForm)
	if err != nil {
		return nil, err
	}
	if err := fill(form, FieldPassword, password, FieldConfirmPassword, confirm); err != nil {
		return nil, err
	}

	header := http.Header{}
	raw := page.Text(c.Elements.TokenBox)
	if raw == "" {
		raw = page.Token()
	}
	if raw = stripBearer(raw); raw != "" {
		header.Set("Authorization", "Bearer "+raw)
		c.inspect(raw)
	} else {
		c.logger.WithField("form", form.ID).Warn("page carries no bearer token")
	}

	redirect := form.Redirect
	if path := page.Text(c.Elements.RedirectPath); path != "" {
		if redirect, err = page.Resolve(path); err != nil {
			return nil, err
		}
	}
	return c.Submitter.Submit(ctx, &Submission{
		Form:        form,
		Affordances: page.Affordances(c.Elements.Logout),
		Table:       PasswordChangeTable(),
		Header:      header,
		FollowUp:    Navigate(redirect),
	})
}

// stripBearer drops an authorization scheme the page may already carry.
func stripBearer(raw string) string {
	const scheme = "bearer "
	raw = strings.TrimSpace(raw)
	if len(raw) >= len(scheme) && strings.EqualFold(raw[:len(scheme)], scheme) {
		raw = strings.TrimSpace(raw[len(scheme):])
	}
	return raw
}

func (c *Client) inspect(raw string) {
	info, err := token.Inspect(raw)
	if err != nil {
		c.logger.WithError(err).Debug("page token is not a readable JWT")
		return
	}
	logger := c.logger.WithFields(log.Fields{"user": info.User.DisplayName(), "expires": info.ExpiresAt})
	if info.Expired(time.Now()) {
		logger.Warn("page token already expired")
		c.Submitter.Notify(LevelError, i18n.SessionExpired)
		return
	}
	logger.Debug("page token")
}

// Logout leaves the session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Browser.Open(ctx, c.Routes.Logout)
	return errors.Wrap(err, "logout")
}

// fill sets name/value pairs on f.
func fill(f *Form, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := f.Set(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

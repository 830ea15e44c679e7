package authform

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const loginPage = `<html><head><title>Login</title></head><body>
<form id="formLogin" method="post" action="/login">
  <input type="text" name="email">
  <input type="password" name="password">
  <input type="checkbox" name="remember" value="1">
  <button type="submit" class="btn"><i class="fa fa-sign-in"></i> Login</button>
</form>
<form id="formGuest" method="post" action="/login/guest">
  <input type="hidden" name="guest" value="1">
  <button type="submit"><i class="fa fa-user-secret"></i> Guest</button>
</form>
<form id="formSubmitToken" method="post" action="/login/token">
  <input type="hidden" name="token">
</form>
<a id="forgotLink" href="/request-reset">Forgot password?</a>
</body></html>`

const forgotPasswordPage = `<html><head><title>Forgot password</title></head><body>
<form id="formForgot" method="post" action="/request-reset">
  <input type="email" name="email">
  <button type="submit"><i class="fa fa-envelope"></i></button>
</form>
<a id="loginLink" href="/login">Back to login</a>
</body></html>`

const resetPasswordPage = `<html><head><title>Reset password</title></head><body>
<form id="formReset" method="post">
  <input type="hidden" name="email" value="budi@example.com">
  <input type="hidden" name="token" value="reset-xyz">
  <input type="password" name="password">
  <input type="password" name="confirmPassword">
  <button type="submit"><i class="fa fa-key"></i></button>
</form>
<form id="formSubmitToken" method="post" action="/login/token">
  <input type="hidden" name="token">
</form>
</body></html>`

const homePage = `<html><head><title>Home</title></head><body>welcome</body></html>`

// renewPasswordPage renders the token and the redirect path as element text.
func renewPasswordPage(token string) string {
	return `<html><head><title>Change password</title></head><body>
<div id="tokenBox" hidden>` + token + `</div>
<div id="redirectPath" hidden>/home</div>
<form id="formRenew" method="post" action="/api/password">
  <input type="password" name="password">
  <input type="password" name="confirmPassword">
  <button type="submit"><i class="fa fa-save"></i></button>
</form>
<a id="btn-logout" href="/logout">Logout</a>
</body></html>`
}

// renewPasswordMetaPage declares the token in a meta tag and the redirect
// on the form.
func renewPasswordMetaPage(token string) string {
	return `<html><head><title>Change password</title><meta name="token" content="` + token + `"></head><body>
<form id="formRenew" method="post" action="/api/password" data-redirect="/home">
  <input type="password" name="password">
  <input type="password" name="confirmPassword">
  <button type="submit"><i class="fa fa-save"></i></button>
</form>
<a id="btn-logout" href="/logout">Logout</a>
</body></html>`
}

// renderJSONWithStatus sends data as json and enforces status code
func renderJSONWithStatus(w http.ResponseWriter, data interface{}, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

type JSON map[string]interface{}

func jsonHandler(code int, data interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderJSONWithStatus(w, data, code)
	}
}

func htmlHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body)
	}
}

// tokenHandler accepts the chained token form and sets the session cookie.
func tokenHandler(got *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*got = r.PostFormValue("token")
		http.SetCookie(w, &http.Cookie{Name: CookieJWT, Value: "session-" + *got, Path: "/", HttpOnly: true})
		htmlHandler(homePage)(w, r)
	}
}

func newServer(t *testing.T, router *mux.Router) *httptest.Server {
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:  baseURL,
		Language: "en",
		LogLevel: "error",
		Timeout:  5 * time.Second,
		Delays:   Delays{},
		Routes:   DefaultRoutes(),
		Elements: DefaultElements(),
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, n Notifier) *Client {
	c, err := NewClient(testConfig(srv.URL), WithClientNotifier(n), WithClientLogger(quietLogger()))
	require.NoError(t, err)
	return c
}

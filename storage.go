package authform

import (
	"time"

	"github.com/n10ty/authform/storage"
	"github.com/n10ty/authform/token"
	"github.com/pkg/errors"
)

// CookieJWT is the cookie the auth service keeps its session token in.
const CookieJWT = "JWT"

// RestoreSession loads the cookies stored for the base host into the
// browser. A missing session is not an error.
func (c *Client) RestoreSession(store storage.Storage) error {
	base := c.Browser.Base()
	sess, err := store.GetSession(base.Host)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "loading session for %s", base.Host)
	}
	cookies := sess.HTTPCookies(time.Now())
	c.Browser.Jar().SetCookies(base, cookies)
	c.logger.WithField("host", base.Host).WithField("cookies", len(cookies)).Debug("session restored")
	return nil
}

// PersistSession stores the browser cookies of the base host.
func (c *Client) PersistSession(store storage.Storage) error {
	base := c.Browser.Base()
	sess := storage.NewSession(base.Host, c.Browser.Jar().Cookies(base))
	for _, ck := range sess.Cookies {
		if ck.Name != CookieJWT {
			continue
		}
		if info, err := token.Inspect(ck.Value); err == nil {
			sess.User = info.User.DisplayName()
		}
	}
	return errors.Wrapf(store.SaveSession(sess), "saving session for %s", base.Host)
}

// ForgetSession drops the stored session of the base host.
func (c *Client) ForgetSession(store storage.Storage) error {
	base := c.Browser.Base()
	return errors.Wrapf(store.DeleteSession(base.Host), "deleting session for %s", base.Host)
}

package storage

import (
	"net/http"
	"time"
)

// Cookie is the persisted part of an http.Cookie.
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// Session is the cookie state of one host.
type Session struct {
	Host      string    `json:"host"`
	User      string    `json:"user,omitempty"`
	Cookies   []Cookie  `json:"cookies"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(host string, cookies []*http.Cookie) *Session {
	s := &Session{Host: host, UpdatedAt: time.Now()}
	for _, c := range cookies {
		s.Cookies = append(s.Cookies, Cookie{Name: c.Name, Value: c.Value, Path: c.Path, Expires: c.Expires})
	}
	return s
}

// HTTPCookies returns the cookies still valid at now.
func (s *Session) HTTPCookies(now time.Time) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range s.Cookies {
		if !c.Expires.IsZero() && !now.Before(c.Expires) {
			continue
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value, Path: path, Expires: c.Expires})
	}
	return out
}

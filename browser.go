package authform

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// Browser is a headless host for the auth pages: it keeps cookies across
// requests, loads pages and performs the navigations and chained form
// submissions that follow a successful submission.
type Browser struct {
	client  *http.Client
	base    *url.URL
	logger  log.FieldLogger
	onPage  func(*Page)
	mu      sync.Mutex
	current *Page
}

type BrowserOption func(*Browser)

// WithHTTPClient replaces the client. A cookie jar is added when it has none.
func WithHTTPClient(c *http.Client) BrowserOption {
	return func(b *Browser) { b.client = c }
}

func WithBrowserLogger(l log.FieldLogger) BrowserOption {
	return func(b *Browser) { b.logger = l }
}

// OnPage registers a callback run every time a new page becomes current.
func OnPage(fn func(*Page)) BrowserOption {
	return func(b *Browser) { b.onPage = fn }
}

func NewBrowser(baseURL string, opts ...BrowserOption) (*Browser, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base url %q", baseURL)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}
	b := &Browser{base: base}
	for _, o := range opts {
		o(b)
	}
	if b.client == nil {
		b.client = &http.Client{}
	}
	if b.client.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, errors.Wrap(err, "creating cookie jar")
		}
		b.client.Jar = jar
	}
	if b.logger == nil {
		b.logger = log.StandardLogger()
	}
	return b, nil
}

// Do sends req with the browser's cookies. It lets Browser serve as the
// submitter's transport.
func (b *Browser) Do(req *http.Request) (*http.Response, error) {
	return b.client.Do(req)
}

func (b *Browser) Base() *url.URL {
	u := *b.base
	return &u
}

func (b *Browser) Jar() http.CookieJar {
	return b.client.Jar
}

// Page returns the current page, or nil before anything was loaded.
func (b *Browser) Page() *Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Browser) resolve(target string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", target)
	}
	from := b.base
	if p := b.Page(); p != nil && p.URL != nil && p.URL.Host != "" {
		from = p.URL
	}
	return from.ResolveReference(ref), nil
}

// Open loads target (absolute or relative to the current page, or to the
// base URL before any page was loaded) and makes it the current page.
func (b *Browser) Open(ctx context.Context, target string) (*Page, error) {
	u, err := b.resolve(target)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building page request")
	}
	return b.load(req)
}

// Navigate implements Navigator.
func (b *Browser) Navigate(ctx context.Context, target string) error {
	_, err := b.Open(ctx, target)
	return err
}

// SubmitForm implements Navigator: f is submitted as a regular, non
// asynchronous form and the response becomes the current page.
func (b *Browser) SubmitForm(ctx context.Context, f *Form) error {
	req, err := newRequest(ctx, f, f.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Del("X-Requested-With")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
	_, err = b.load(req)
	return err
}

func (b *Browser) load(req *http.Request) (*Page, error) {
	logger := b.logger.WithFields(log.Fields{"method": req.Method, "url": req.URL.String()})
	rsp, err := b.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", req.URL)
	}
	defer rsp.Body.Close()
	logger = logger.WithField("status", rsp.StatusCode)

	if rsp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, io.LimitReader(rsp.Body, MaxHTTPBodySize))
		logger.Warn("page load failed")
		return nil, &PageError{URL: rsp.Request.URL.String(), Status: rsp.StatusCode}
	}
	if ct := rsp.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && !strings.Contains(mt, "html") {
			logger.WithField("contentType", mt).Debug("loaded a non HTML page")
		}
	}

	page, err := ParsePage(rsp.Request.URL, io.LimitReader(rsp.Body, MaxHTTPBodySize))
	if err != nil {
		return nil, err
	}
	logger.WithField("final", page.URL.String()).Debug("page loaded")

	b.mu.Lock()
	b.current = page
	b.mu.Unlock()
	if b.onPage != nil {
		b.onPage(page)
	}
	return page, nil
}

// PageError is returned when a page answers with an error status.
type PageError struct {
	URL    string
	Status int
}

func (e *PageError) Error() string {
	return "page " + e.URL + ": " + http.StatusText(e.Status)
}

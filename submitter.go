package authform

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/n10ty/authform/i18n"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// MaxHTTPBodySize defines max http body size read from a response
	MaxHTTPBodySize = 1024 * 1024

	HeaderRequestID = "X-Request-ID"
)

// Doer sends one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Navigator moves the page somewhere else once a submission succeeded.
type Navigator interface {
	// Navigate loads target, relative to the current page.
	Navigate(ctx context.Context, target string) error
	// SubmitForm submits f the way a browser would, leaving the page.
	SubmitForm(ctx context.Context, f *Form) error
}

// Submission is one submit of one form.
type Submission struct {
	Form *Form
	// Linked forms are disabled together with Form.
	Linked      []*Form
	Affordances []*Affordance
	// Table resolves failure payloads. NewTable() is used when nil.
	Table *Table
	// Header is added to the request, e.g. a bearer Authorization.
	Header   http.Header
	FollowUp FollowUp
}

// Submitter runs guarded form submissions.
type Submitter struct {
	client    Doer
	notifier  Notifier
	printer   *i18n.Printer
	navigator Navigator
	logger    log.FieldLogger
}

type Option func(*Submitter)

func WithNotifier(n Notifier) Option {
	return func(s *Submitter) { s.notifier = n }
}

func WithPrinter(p *i18n.Printer) Option {
	return func(s *Submitter) { s.printer = p }
}

func WithNavigator(n Navigator) Option {
	return func(s *Submitter) { s.navigator = n }
}

func WithLogger(l log.FieldLogger) Option {
	return func(s *Submitter) { s.logger = l }
}

func NewSubmitter(client Doer, opts ...Option) *Submitter {
	s := &Submitter{client: client}
	for _, o := range opts {
		o(s)
	}
	if s.client == nil {
		s.client = http.DefaultClient
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{}
	}
	if s.printer == nil {
		s.printer = i18n.New("")
	}
	if s.logger == nil {
		s.logger = log.StandardLogger()
	}
	return s
}

// Submit sends sub and handles its outcome: on success the form stays
// guarded and the follow-up runs; on failure the guard is released and the
// matching toasts are shown. The returned error is only set when the
// submission could not start at all.
func (s *Submitter) Submit(ctx context.Context, sub *Submission) (Result, error) {
	if sub == nil || sub.Form == nil {
		return nil, errors.Wrap(ErrFormNotFound, "submit")
	}
	form := sub.Form
	if strings.TrimSpace(form.Action) == "" {
		return nil, errors.Errorf("submit %s: form has no action", form.ID)
	}
	table := sub.Table
	if table == nil {
		table = NewTable()
	}

	encoded := form.Encode()
	guard := NewGuard(form, sub.Linked, sub.Affordances)
	if err := guard.Acquire(); err != nil {
		return nil, errors.Wrapf(err, "submit %s", form.ID)
	}

	requestID := uuid.New().String()
	logger := s.logger.WithFields(log.Fields{
		"form":      form.ID,
		"method":    form.method(),
		"action":    form.Action,
		"requestID": requestID,
	})

	req, err := newRequest(ctx, form, encoded, sub.Header)
	if err != nil {
		guard.Release()
		return nil, errors.Wrapf(err, "submit %s", form.ID)
	}
	req.Header.Set(HeaderRequestID, requestID)

	logger.Debug("submitting form")
	status, body, err := s.send(req)
	if err != nil {
		logger.WithError(err).Error("form submission transport error")
		return s.fail(guard, table, &Failure{Malformed: true, Err: err}, logger), nil
	}
	logger = logger.WithField("status", status)

	if status < 200 || status > 299 {
		return s.fail(guard, table, decodeFailure(status, body), logger), nil
	}

	success, err := decodeSuccess(status, body)
	if err != nil {
		logger.WithError(err).Error("form submission returned a non JSON body")
		return s.fail(guard, table, &Failure{Status: status, Malformed: true, Err: err}, logger), nil
	}
	logger.Debug("form submitted")

	if sub.FollowUp != nil {
		if err := sub.FollowUp(ctx, s, success.Payload); err != nil {
			success.FollowUpErr = err
			logger.WithError(err).Error("form follow-up failed")
			if !errors.Is(err, context.Canceled) {
				s.Notify(LevelError, i18n.TechnicalError)
			}
		}
	}
	return success, nil
}

// Go runs Submit in its own goroutine. The channel receives exactly one
// result; when the submission could not start it is a *Failure with only
// Err set.
func (s *Submitter) Go(ctx context.Context, sub *Submission) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		res, err := s.Submit(ctx, sub)
		if err != nil {
			s.logger.WithError(err).Warn("form submission not started")
			res = &Failure{Err: err}
		}
		out <- res
	}()
	return out
}

// Notify shows the message key rendered in the submitter's language.
func (s *Submitter) Notify(level Level, key string, args ...interface{}) {
	s.notifier.Notify(Notification{Level: level, Message: s.printer.Sprintf(key, args...)})
}

func (s *Submitter) fail(guard *Guard, table *Table, f *Failure, logger log.FieldLogger) *Failure {
	// the page must be usable again before anything is shown
	guard.Release()

	if f.Malformed {
		logger.WithError(f.Err).Warn("form submission failed without a readable body")
	} else {
		logger.WithFields(log.Fields{"code": f.CodeText(), "hasCode": f.HasCode}).Info("form submission failed")
	}
	for _, msg := range table.Resolve(s.printer, f) {
		s.notifier.Notify(Notification{Level: LevelError, Message: msg})
	}
	return f
}

func (s *Submitter) send(req *http.Request) (int, []byte, error) {
	rsp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, errors.Wrap(err, "sending form")
	}
	defer rsp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(rsp.Body, MaxHTTPBodySize))
	if err != nil {
		return rsp.StatusCode, nil, errors.Wrap(err, "reading response body")
	}
	return rsp.StatusCode, body, nil
}

// newRequest builds the request for form with its encoded fields as the
// query or the body.
func newRequest(ctx context.Context, form *Form, encoded string, header http.Header) (*http.Request, error) {
	method := form.method()
	target := form.Action
	var body io.Reader
	if method == http.MethodGet || method == http.MethodHead {
		u, err := url.Parse(target)
		if err != nil {
			return nil, errors.Wrap(err, "parsing form action")
		}
		u.RawQuery = encoded
		target = u.String()
	} else {
		body = strings.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	// always sent as is, whatever the caller passed
	req.Header.Set("Accept", "*/*")
	return req, nil
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package authform

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Result is the outcome of one submission: *Success or *Failure.
type Result interface {
	isResult()
}

// Payload is a decoded JSON success body.
type Payload map[string]interface{}

// String returns the value of key when it is a JSON string.
func (p Payload) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

type Success struct {
	Status  int
	Payload Payload
	// FollowUpErr is set when the page-specific follow-up could not complete.
	FollowUpErr error
}

type Failure struct {
	Status int
	// Malformed is true when the body could not be parsed as JSON, including
	// transport errors where there was no body at all.
	Malformed bool
	HasCode   bool
	Raw       int
	Code      Code
	// RawCode is the code as the server wrote it. Non-numeric codes only
	// ever set this.
	RawCode string
	// Fields is set when `message` is a field -> issues mapping.
	Fields FieldErrors
	// Text is set when `message` is a plain string.
	Text string
	Err  error
}

// CodeText returns the code for display.
func (f *Failure) CodeText() string {
	if f.RawCode != "" {
		return f.RawCode
	}
	return strconv.Itoa(f.Raw)
}

func (*Success) isResult() {}
func (*Failure) isResult() {}

// Issue is one validation failure reported for a field.
type Issue struct {
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// FieldError groups the issues of one field.
type FieldError struct {
	Field  string
	Issues []Issue
}

// FieldErrors keeps fields in the order the server sent them.
type FieldErrors []FieldError

func (fe *FieldErrors) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.Errorf("field errors: expected object, got %v", tok)
	}
	var out FieldErrors
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return errors.Errorf("field errors: expected field name, got %v", tok)
		}
		var issues []Issue
		if err := dec.Decode(&issues); err != nil {
			return errors.Wrapf(err, "field errors: field %q", name)
		}
		out = append(out, FieldError{Field: name, Issues: issues})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*fe = out
	return nil
}

type failureBody struct {
	Code    json.RawMessage `json:"code"`
	Message json.RawMessage `json:"message"`
}

// decodeFailure interprets a non-2xx body. It never fails: anything that is
// not a JSON object is reported as Malformed.
func decodeFailure(status int, body []byte) *Failure {
	f := &Failure{Status: status}
	var fb failureBody
	if err := json.Unmarshal(body, &fb); err != nil {
		f.Malformed = true
		f.Err = errors.Wrap(err, "decoding failure body")
		return f
	}
	f.readCode(fb.Code)
	if len(fb.Message) == 0 {
		return f
	}
	switch fb.Message[0] {
	case '{':
		var fields FieldErrors
		if err := json.Unmarshal(fb.Message, &fields); err != nil {
			f.Err = errors.Wrap(err, "decoding validation messages")
			return f
		}
		f.Fields = fields
	case '"':
		_ = json.Unmarshal(fb.Message, &f.Text)
	}
	return f
}

// readCode sets the code fields from the raw `code` member. A missing code,
// null, false, 0 and "" all mean there is no code. Strings and other values
// never match a known code.
func (f *Failure) readCode(raw json.RawMessage) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return
	}
	switch c := v.(type) {
	case nil:
		return
	case bool:
		if !c {
			return
		}
		f.RawCode = "true"
	case string:
		if c == "" {
			return
		}
		f.RawCode = c
	case json.Number:
		n, err := c.Float64()
		if err != nil || n == 0 {
			return
		}
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			f.RawCode = c.String()
			break
		}
		f.Raw = int(n)
		f.Code = ParseCode(f.Raw)
	default:
		f.RawCode = string(raw)
	}
	f.HasCode = true
}

func decodeSuccess(status int, body []byte) (*Success, error) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, errors.Wrap(err, "decoding success body")
	}
	// any JSON value is a valid success; only objects carry fields
	p, ok := v.(map[string]interface{})
	if !ok {
		p = map[string]interface{}{}
	}
	return &Success{Status: status, Payload: p}, nil
}

package authform

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrInFlight     = errors.New("form submission already in flight")
	ErrFormNotFound = errors.New("form not found")
	ErrFieldUnknown = errors.New("field not found")
)

// Field is one named control of a form, in document order.
type Field struct {
	Name     string
	Type     string
	Value    string
	Disabled bool
	// Checked applies to checkbox and radio inputs only.
	Checked bool
}

func (f *Field) checkable() bool {
	return f.Type == "checkbox" || f.Type == "radio"
}

// Control is the primary submit button of a form. Its icon is swapped for a
// busy indicator while the form is guarded.
type Control struct {
	Disabled  bool
	Icon      string
	BusyIcons []string
	classes   []string
}

// DefaultBusyIcons is the spinner used when a page does not declare one.
var DefaultBusyIcons = []string{"spinner-border", "spinner-border-sm"}

func NewControl(icon string, classes ...string) *Control {
	c := &Control{Icon: icon, BusyIcons: DefaultBusyIcons}
	for _, cl := range classes {
		c.addClass(cl)
	}
	if icon != "" {
		c.addClass(icon)
	}
	return c
}

// Classes returns the current class list of the control's icon element.
func (c *Control) Classes() []string {
	return append([]string(nil), c.classes...)
}

func (c *Control) HasClass(class string) bool {
	for _, cl := range c.classes {
		if cl == class {
			return true
		}
	}
	return false
}

// Busy reports whether the busy indicator is showing.
func (c *Control) Busy() bool {
	for _, b := range c.BusyIcons {
		if c.HasClass(b) {
			return true
		}
	}
	return false
}

func (c *Control) addClass(class string) {
	if class == "" || c.HasClass(class) {
		return
	}
	c.classes = append(c.classes, class)
}

func (c *Control) removeClass(class string) {
	out := c.classes[:0]
	for _, cl := range c.classes {
		if cl != class {
			out = append(out, cl)
		}
	}
	c.classes = out
}

func (c *Control) showBusy() {
	c.removeClass(c.Icon)
	for _, b := range c.BusyIcons {
		c.addClass(b)
	}
}

func (c *Control) showIcon() {
	for _, b := range c.BusyIcons {
		c.removeClass(b)
	}
	c.addClass(c.Icon)
}

// Affordance is a secondary control (a "forgot password" link, a logout
// button) that would let the user leave the page mid-submission.
type Affordance struct {
	ID      string
	Href    string
	Muted   bool
	blocked bool
	mu      sync.Mutex
}

// Activate reports whether following the affordance is allowed right now.
// While a submission is in flight activation is suppressed.
func (a *Affordance) Activate() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.blocked
}

func (a *Affordance) Blocked() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.blocked
}

// Form is the view-model of one HTML form.
type Form struct {
	ID     string
	Method string
	Action string
	Fields []*Field
	Submit *Control
	// Redirect is an optional link target declared on the form itself.
	Redirect string

	mu    sync.Mutex
	guard *guardState
	// holds counts guards of other forms that disabled this one.
	holds int
}

func (f *Form) held() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.guard != nil || f.holds > 0
}

func (f *Form) field(name string) *Field {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd
		}
	}
	return nil
}

// Field returns the first field called name, or nil.
func (f *Form) Field(name string) *Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.field(name)
}

// Set assigns value to the field called name. Checkboxes are checked when
// value is non-empty and not "false".
func (f *Form) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fd := f.field(name)
	if fd == nil {
		return errors.Wrapf(ErrFieldUnknown, "form %s: %s", f.ID, name)
	}
	if fd.checkable() {
		fd.Checked = value != "" && value != "false"
		return nil
	}
	fd.Value = value
	return nil
}

// Guarded reports whether a submission currently holds the form.
func (f *Form) Guarded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.guard != nil
}

// Values returns the successful fields of the form. Disabled fields and
// unchecked checkboxes are skipped, as a browser does. url.Values does not
// keep field order; use Encode for the wire form.
func (f *Form) Values() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := url.Values{}
	for _, kv := range f.pairs() {
		v.Add(kv[0], kv[1])
	}
	return v
}

// Encode URL-encodes the successful fields in document order.
func (f *Form) Encode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var b strings.Builder
	for _, kv := range f.pairs() {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv[1]))
	}
	return b.String()
}

func (f *Form) pairs() [][2]string {
	var out [][2]string
	for _, fd := range f.Fields {
		if fd.Name == "" || fd.Disabled {
			continue
		}
		if fd.checkable() {
			if !fd.Checked {
				continue
			}
			val := fd.Value
			if val == "" {
				val = "on"
			}
			out = append(out, [2]string{fd.Name, val})
			continue
		}
		out = append(out, [2]string{fd.Name, fd.Value})
	}
	return out
}

// method returns the upper-cased form method, GET when unset.
func (f *Form) method() string {
	m := strings.ToUpper(strings.TrimSpace(f.Method))
	if m == "" {
		return http.MethodGet
	}
	return m
}

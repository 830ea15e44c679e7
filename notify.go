package authform

import (
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one toast.
type Notification struct {
	Level   Level
	Message string
}

// Notifier shows toasts to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts an ordinary function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// LogNotifier writes toasts to the logger.
type LogNotifier struct {
	Logger log.FieldLogger
}

func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	entry := logger.WithField("toast", n.Level)
	if n.Level == LevelError {
		entry.Warn(n.Message)
		return
	}
	entry.Info(n.Message)
}

// TerminalNotifier prints toasts, one per line.
type TerminalNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w}
}

var levelMarks = map[Level]string{
	LevelInfo:    "[i]",
	LevelSuccess: "[✓]",
	LevelError:   "[!]",
}

func (t *TerminalNotifier) Notify(n Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mark, ok := levelMarks[n.Level]
	if !ok {
		mark = "[ ]"
	}
	fmt.Fprintf(t.w, "%s %s\n", mark, n.Message)
}

// Recorder keeps every toast it is given.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Messages returns the text of every recorded toast.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Message)
	}
	return out
}

// MultiNotifier fans a toast out to several notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(n Notification) {
	for _, nt := range m {
		if nt != nil {
			nt.Notify(n)
		}
	}
}

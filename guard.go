package authform

import "sync"

// guardMu serializes every acquire and release so linked forms (login and
// guest login hold each other) never lock in opposite orders.
var guardMu sync.Mutex

// guardState remembers what the page looked like before a submission so the
// guard can put it back exactly.
type guardState struct {
	fields      map[*Field]bool
	control     bool
	linked      []*linkedState
	affordances map[*Affordance]bool
}

type linkedState struct {
	form    *Form
	fields  map[*Field]bool
	control bool
}

// Guard holds a form (and the forms and affordances that must not be used
// alongside it) for the duration of one submission.
type Guard struct {
	form        *Form
	linked      []*Form
	affordances []*Affordance
}

func NewGuard(form *Form, linked []*Form, affordances []*Affordance) *Guard {
	return &Guard{form: form, linked: linked, affordances: affordances}
}

// Acquire disables the form, its linked forms and affordances and shows the
// busy indicator. It fails with ErrInFlight when the form, or a linked form,
// is already held.
func (g *Guard) Acquire() error {
	guardMu.Lock()
	defer guardMu.Unlock()

	f := g.form
	if f.held() {
		return ErrInFlight
	}
	for _, lf := range g.linked {
		if lf != nil && lf != f && lf.held() {
			return ErrInFlight
		}
	}

	st := &guardState{affordances: map[*Affordance]bool{}}

	f.mu.Lock()
	st.fields = disableFields(f.Fields)
	if f.Submit != nil {
		st.control = f.Submit.Disabled
		f.Submit.Disabled = true
		f.Submit.showBusy()
	}
	f.guard = st
	f.mu.Unlock()

	for _, lf := range g.linked {
		if lf == nil || lf == f {
			continue
		}
		lf.mu.Lock()
		ls := &linkedState{form: lf, fields: disableFields(lf.Fields)}
		if lf.Submit != nil {
			ls.control = lf.Submit.Disabled
			lf.Submit.Disabled = true
		}
		lf.holds++
		lf.mu.Unlock()
		st.linked = append(st.linked, ls)
	}
	for _, a := range g.affordances {
		if a == nil {
			continue
		}
		a.mu.Lock()
		st.affordances[a] = a.Muted
		a.blocked = true
		a.Muted = true
		a.mu.Unlock()
	}
	return nil
}

// Release restores everything Acquire changed. Releasing a form that is not
// held does nothing, so calling it twice is harmless.
func (g *Guard) Release() {
	guardMu.Lock()
	defer guardMu.Unlock()

	f := g.form
	f.mu.Lock()
	st := f.guard
	if st == nil {
		f.mu.Unlock()
		return
	}
	restoreFields(st.fields)
	if f.Submit != nil {
		f.Submit.Disabled = st.control
		f.Submit.showIcon()
	}
	f.guard = nil
	f.mu.Unlock()

	for _, ls := range st.linked {
		ls.form.mu.Lock()
		restoreFields(ls.fields)
		if ls.form.Submit != nil {
			ls.form.Submit.Disabled = ls.control
		}
		ls.form.holds--
		ls.form.mu.Unlock()
	}
	for a, muted := range st.affordances {
		a.mu.Lock()
		a.blocked = false
		a.Muted = muted
		a.mu.Unlock()
	}
}

func disableFields(fields []*Field) map[*Field]bool {
	prev := make(map[*Field]bool, len(fields))
	for _, fd := range fields {
		prev[fd] = fd.Disabled
		fd.Disabled = true
	}
	return prev
}

func restoreFields(prev map[*Field]bool) {
	for fd, disabled := range prev {
		fd.Disabled = disabled
	}
}

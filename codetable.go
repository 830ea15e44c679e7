package authform

import "github.com/n10ty/authform/i18n"

// Table maps failure payloads onto the messages a page shows. Every page
// builds its own table; the message values are i18n keys.
type Table struct {
	// Messages holds the fixed message for each code the page knows.
	Messages map[Code]string
	// Fields maps field name -> validation tag -> message, consulted for
	// CodeValidationFailed.
	Fields map[string]map[string]string
	// InvalidInput is shown once for each invalid field the page does not
	// know.
	InvalidInput string
	// Technical is shown for codes missing from Messages. It receives the
	// code, as the server wrote it, as its only argument.
	Technical string
	// Malformed is shown when the failure body is not JSON.
	Malformed string
}

// NewTable returns a table with the shared fallback entries and no codes.
func NewTable() *Table {
	return &Table{
		Messages:     map[Code]string{},
		Fields:       map[string]map[string]string{},
		InvalidInput: i18n.InvalidInput,
		Technical:    i18n.TechnicalErrorFor,
		Malformed:    i18n.TechnicalError,
	}
}

// On registers a fixed message for code.
func (t *Table) On(code Code, key string) *Table {
	t.Messages[code] = key
	return t
}

// OnField registers a message for a validation tag on field.
func (t *Table) OnField(field, tag, key string) *Table {
	tags, ok := t.Fields[field]
	if !ok {
		tags = map[string]string{}
		t.Fields[field] = tags
	}
	tags[tag] = key
	return t
}

// Resolve returns the messages to show for f, already rendered by p. It
// returns nil when there is nothing to show.
func (t *Table) Resolve(p *i18n.Printer, f *Failure) []string {
	if f.Malformed {
		return []string{p.Sprintf(t.Malformed)}
	}
	if !f.HasCode {
		return nil
	}
	if f.Code == CodeValidationFailed {
		return t.resolveFields(p, f)
	}
	if key, ok := t.Messages[f.Code]; ok && f.Code.Known() {
		return []string{p.Sprintf(key)}
	}
	return []string{p.Sprintf(t.Technical, f.CodeText())}
}

// resolveFields shows one message per mapped tag of a known field and a
// single InvalidInput for each field the page does not know. Unmapped tags
// on a known field show nothing.
func (t *Table) resolveFields(p *i18n.Printer, f *Failure) []string {
	if len(f.Fields) == 0 {
		return []string{p.Sprintf(t.InvalidInput)}
	}
	var out []string
	for _, fe := range f.Fields {
		tags, known := t.Fields[fe.Field]
		if !known {
			out = append(out, p.Sprintf(t.InvalidInput))
			continue
		}
		for _, issue := range fe.Issues {
			if key, ok := tags[issue.Tag]; ok {
				out = append(out, p.Sprintf(key))
			}
		}
	}
	return out
}

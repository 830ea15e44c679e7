package authform

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
)

// Page is a server-rendered HTML page, the source of form view-models.
type Page struct {
	URL *url.URL
	doc *goquery.Document

	forms       map[string]*Form
	affordances map[string]*Affordance
}

// ParsePage parses an HTML document loaded from u.
func ParsePage(u *url.URL, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "HTML-parsing page")
	}
	if u == nil {
		u = &url.URL{}
	}
	return &Page{
		URL:         u,
		doc:         doc,
		forms:       map[string]*Form{},
		affordances: map[string]*Affordance{},
	}, nil
}

func (p *Page) Title() string {
	return strings.TrimSpace(p.doc.Find("head title").First().Text())
}

// Resolve makes ref absolute against the page URL.
func (p *Page) Resolve(ref string) (string, error) {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", errors.Wrapf(err, "parsing reference %q", ref)
	}
	return p.URL.ResolveReference(r).String(), nil
}

// Form returns the view-model of `<form id="id">`. Repeated calls return the
// same *Form, so guard state is shared by everything on the page.
func (p *Page) Form(id string) (*Form, error) {
	if f, ok := p.forms[id]; ok {
		return f, nil
	}
	sel := p.doc.Find(fmt.Sprintf(`form[id="%s"]`, id)).First()
	if sel.Length() < 1 {
		return nil, errors.Wrapf(ErrFormNotFound, "page %s: form #%s", p.URL, id)
	}

	// an empty action posts back to the page itself
	action, err := p.Resolve(sel.AttrOr("action", ""))
	if err != nil {
		return nil, errors.Wrapf(err, "page %s: form #%s", p.URL, id)
	}
	method, _ := sel.Attr("method")
	redirect, _ := sel.Attr("data-redirect")
	if redirect != "" {
		if r, err := p.Resolve(redirect); err == nil {
			redirect = r
		}
	}

	f := &Form{
		ID:       id,
		Method:   method,
		Action:   action,
		Redirect: redirect,
		Submit:   parseControl(sel),
	}
	sel.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
		if fd := parseField(s); fd != nil {
			f.Fields = append(f.Fields, fd)
		}
	})
	p.forms[id] = f
	return f, nil
}

// Forms returns the view-models of several forms, skipping the ids missing
// from the page.
func (p *Page) Forms(ids ...string) []*Form {
	var out []*Form
	for _, id := range ids {
		if f, err := p.Form(id); err == nil {
			out = append(out, f)
		}
	}
	return out
}

func parseField(s *goquery.Selection) *Field {
	name, ok := s.Attr("name")
	if !ok || name == "" {
		return nil
	}
	tag := goquery.NodeName(s)
	fd := &Field{Name: name, Type: tag}
	_, fd.Disabled = s.Attr("disabled")

	switch tag {
	case "textarea":
		fd.Value = s.Text()
	case "select":
		opt := s.Find("option[selected]").First()
		if opt.Length() < 1 {
			opt = s.Find("option").First()
		}
		if v, ok := opt.Attr("value"); ok {
			fd.Value = v
		} else {
			fd.Value = strings.TrimSpace(opt.Text())
		}
	default:
		typ, _ := s.Attr("type")
		typ = strings.ToLower(typ)
		if typ == "" {
			typ = "text"
		}
		switch typ {
		case "submit", "button", "reset", "image", "file":
			return nil
		}
		fd.Type = typ
		fd.Value, _ = s.Attr("value")
		_, fd.Checked = s.Attr("checked")
	}
	return fd
}

func parseControl(form *goquery.Selection) *Control {
	btn := form.Find(`button[type="submit"], input[type="submit"]`).First()
	if btn.Length() < 1 {
		btn = form.Find("button").First()
	}
	if btn.Length() < 1 {
		return nil
	}
	icon := btn.Find("i").First()
	classes := strings.Fields(icon.AttrOr("class", ""))
	main := btn.AttrOr("data-icon", "")
	if main == "" {
		// `fa` style base classes stay, the last specific glyph is the icon
		for _, c := range classes {
			if strings.Contains(c, "-") {
				main = c
			}
		}
	}
	var rest []string
	for _, c := range classes {
		if c != main {
			rest = append(rest, c)
		}
	}
	ctl := NewControl(main, rest...)
	if busy, ok := btn.Attr("data-busy-icon"); ok {
		ctl.BusyIcons = strings.Fields(busy)
	}
	_, ctl.Disabled = btn.Attr("disabled")
	return ctl
}

// Affordance returns the secondary control with the given element id.
func (p *Page) Affordance(id string) (*Affordance, error) {
	if a, ok := p.affordances[id]; ok {
		return a, nil
	}
	sel := p.doc.Find(fmt.Sprintf(`[id="%s"]`, id)).First()
	if sel.Length() < 1 {
		return nil, errors.Errorf("page %s: element #%s not found", p.URL, id)
	}
	a := &Affordance{ID: id}
	if href, ok := sel.Attr("href"); ok {
		if r, err := p.Resolve(href); err == nil {
			a.Href = r
		}
	} else if goquery.NodeName(sel) == "form" {
		a.Href, _ = p.Resolve(sel.AttrOr("action", ""))
	}
	p.affordances[id] = a
	return a, nil
}

// Affordances returns the affordances present on the page among ids.
func (p *Page) Affordances(ids ...string) []*Affordance {
	var out []*Affordance
	for _, id := range ids {
		if a, err := p.Affordance(id); err == nil {
			out = append(out, a)
		}
	}
	return out
}

// Link returns the absolute href of the element with the given id.
func (p *Page) Link(id string) (string, error) {
	sel := p.doc.Find(fmt.Sprintf(`[id="%s"]`, id)).First()
	href, ok := sel.Attr("href")
	if !ok {
		return "", errors.Errorf("page %s: no link #%s", p.URL, id)
	}
	return p.Resolve(href)
}

// Text returns the trimmed text of the element with the given id, empty
// when the page has no such element.
func (p *Page) Text(id string) string {
	if id == "" {
		return ""
	}
	return strings.TrimSpace(p.doc.Find(fmt.Sprintf(`[id="%s"]`, id)).First().Text())
}

// Token returns the bearer token a page declares in
// `<meta name="token" content="...">`. Pages that render it in an element
// are read with Text.
func (p *Page) Token() string {
	return strings.TrimSpace(p.doc.Find(`meta[name="token"]`).First().AttrOr("content", ""))
}

var infoPolicy = bluemonday.StrictPolicy()

// InfoMessages returns the messages the server asked the page to show on
// load, read from a JSON array in the body's `data-info` attribute. HTML is
// stripped from each message.
func (p *Page) InfoMessages() ([]string, error) {
	raw, ok := p.doc.Find("body").First().Attr("data-info")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var msgs []string
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, errors.Wrap(err, "decoding page info messages")
	}
	out := msgs[:0]
	for _, m := range msgs {
		clean := strings.TrimSpace(html.UnescapeString(infoPolicy.Sanitize(m)))
		if clean != "" {
			out = append(out, clean)
		}
	}
	return out, nil
}

package service

import (
	"fmt"
	"net/url"
	"strings"

	"parts-checkout/internal/features/payments/domain"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FormSanitizer turns gateway-supplied markup into a RedirectForm. The markup is
// first reduced to forms and inputs by an allow-list, then parsed; only hidden
// inputs survive and the action must be an absolute https URL.
type FormSanitizer struct {
	policy *bluemonday.Policy
}

func NewFormSanitizer() *FormSanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements("form", "input")
	p.AllowAttrs("action", "method").OnElements("form")
	// A gateway may send the action separately; a bare <form> must survive.
	p.AllowNoAttrs().OnElements("form")
	p.AllowAttrs("type", "name", "value").OnElements("input")
	return &FormSanitizer{policy: p}
}

// Sanitize returns the first form in markup. fallbackAction is used when the form
// carries no action of its own. Anything short of a form with at least one hidden
// field and a safe action is an error.
func (s *FormSanitizer) Sanitize(markup, fallbackAction string) (*domain.RedirectForm, error) {
	clean := s.policy.Sanitize(markup)

	doc, err := html.Parse(strings.NewReader(clean))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoSubmittableForm, err)
	}

	formNode := findFirst(doc, atom.Form)
	if formNode == nil {
		return nil, domain.ErrNoSubmittableForm
	}

	action := attr(formNode, "action")
	if action == "" {
		action = fallbackAction
	}
	if err := checkAction(action); err != nil {
		return nil, err
	}

	method := strings.ToLower(attr(formNode, "method"))
	if method != "get" {
		method = "post"
	}

	form := &domain.RedirectForm{Action: action, Method: method}
	walk(formNode, func(n *html.Node) {
		if n.DataAtom != atom.Input || !strings.EqualFold(attr(n, "type"), "hidden") {
			return
		}
		name := attr(n, "name")
		if name == "" {
			return
		}
		form.Fields = append(form.Fields, domain.FormField{Name: name, Value: attr(n, "value")})
	})
	if len(form.Fields) == 0 {
		return nil, fmt.Errorf("%w: no hidden fields", domain.ErrNoSubmittableForm)
	}

	form.HTML = render(form)
	return form, nil
}

func checkAction(action string) error {
	u, err := url.Parse(action)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: %q", domain.ErrUnsafeFormAction, action)
	}
	return nil
}

func render(form *domain.RedirectForm) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<form id="payment-redirect-form" action="%s" method="%s">`,
		html.EscapeString(form.Action), form.Method)
	for _, f := range form.Fields {
		fmt.Fprintf(&b, `<input type="hidden" name="%s" value="%s"/>`,
			html.EscapeString(f.Name), html.EscapeString(f.Value))
	}
	b.WriteString(`</form>`)
	return b.String()
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

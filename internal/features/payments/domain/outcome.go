package domain

// Outcome is the result of one dispatch: Redirect, Confirmed or Failed.
type Outcome interface {
	outcome()
}

// RedirectForm is a sanitised, auto-submittable gateway form.
type RedirectForm struct {
	Action string      `json:"action"`
	Method string      `json:"method"`
	Fields []FormField `json:"fields"`
	// HTML is the canonical re-rendering of the form, safe to insert into a page.
	HTML string `json:"html"`
}

type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Redirect sends the browser to the gateway, either by URL or by submitting Form.
// Order is set when the order already exists server-side.
type Redirect struct {
	Provider ProviderID
	URL      string
	Form     *RedirectForm
	Order    *OrderRef
}

// Confirmed means the order exists and no gateway is involved.
type Confirmed struct {
	Provider ProviderID
	Order    OrderRef
}

// Failed carries a customer-facing message. Order is set when the order was
// created before the failing step.
type Failed struct {
	Kind    FailureKind
	Field   string
	Message string
	Order   *OrderRef
	Err     error
}

func (Redirect) outcome()  {}
func (Confirmed) outcome() {}
func (Failed) outcome()    {}

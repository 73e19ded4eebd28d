package model

// Envelope field names.
const (
	KeyAccount   = "account"
	KeyLogin     = "login"
	KeyToken     = "token"
	KeyArguments = "arguments"
	KeyMethod    = "method"
)

// Envelope is the outer request: routing, credentials and the method arguments.
type Envelope struct {
	Account   string
	Login     string
	Token     string
	Method    string
	Arguments *Object
}

// EnvelopeFrom extracts an Envelope from a decoded request. Values of the wrong
// type come back empty; callers validate the object against the envelope schema first.
func EnvelopeFrom(o *Object) Envelope {
	env := Envelope{
		Account: o.String(KeyAccount),
		Login:   o.String(KeyLogin),
		Token:   o.String(KeyToken),
		Method:  o.String(KeyMethod),
	}
	switch args := mustGet(o, KeyArguments).(type) {
	case *Object:
		env.Arguments = args
	case map[string]any:
		env.Arguments = FromMap(args)
	}
	if env.Arguments == nil {
		env.Arguments = NewObject()
	}
	return env
}

func mustGet(o *Object, key string) any {
	v, _ := o.Get(key)
	return v
}

// Context collects per-request facts for the access log. It is never part of
// the business response.
type Context struct {
	RequestID string   `json:"request_id"`
	Has       []string `json:"has,omitempty"`
	NClients  int      `json:"nclients,omitempty"`
}

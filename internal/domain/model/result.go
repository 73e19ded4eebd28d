package model

// Status is the numeric outcome of a request, mirrored as the HTTP status.
type Status int

// Status codes.
const (
	StatusOK             Status = 200
	StatusBadRequest     Status = 400
	StatusForbidden      Status = 403
	StatusNotFound       Status = 404
	StatusInvalidRequest Status = 422
	StatusInternalError  Status = 500
)

var statusText = map[Status]string{
	StatusBadRequest:     "Bad Request",
	StatusForbidden:      "Forbidden",
	StatusNotFound:       "Not Found",
	StatusInvalidRequest: "Invalid Request",
	StatusInternalError:  "Internal Server Error",
}

// Text returns the default error text for s, or "" for success.
func (s Status) Text() string {
	if t, ok := statusText[s]; ok {
		return t
	}
	if s == StatusOK {
		return ""
	}
	return "Unknown Error"
}

// Result is what a handler produces: a code plus either a response or an error message.
type Result struct {
	Code     Status
	Response any
	Error    string
}

// OK wraps a successful response.
func OK(response any) Result {
	return Result{Code: StatusOK, Response: response}
}

// Fail builds an error result. An empty message falls back to the status text.
func Fail(code Status, msg string) Result {
	return Result{Code: code, Error: msg}
}

// Reply is the wire envelope written back to callers.
type Reply struct {
	Response any    `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
	Code     int    `json:"code"`
}

// Reply converts the result into its wire form.
func (r Result) Reply() Reply {
	if r.Code == StatusOK {
		return Reply{Response: r.Response, Code: int(r.Code)}
	}
	msg := r.Error
	if msg == "" {
		msg = r.Code.Text()
	}
	return Reply{Error: msg, Code: int(r.Code)}
}

// ScoreResponse is the online_score result.
type ScoreResponse struct {
	Score float64 `json:"score"`
}

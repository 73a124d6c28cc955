// Package result holds the outcome of an API endpoint and writes it out as an
// HTTP response.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

type kind int

const (
	kindJSON kind = iota
	kindText
	kindRedirect
)

// Result is what an endpoint produced: a status, a body for the client, and
// a message for the server log that the client never sees.
type Result struct {
	Status      int
	InternalMsg string

	kind   kind
	body   interface{}
	header http.Header

	// set by Prepare
	encoded []byte
}

// IsErr returns whether r is an error response.
func (r Result) IsErr() bool {
	return r.Status >= 400
}

// JSON returns a Result that sends body encoded as JSON. The internal message
// is formatted from format and a.
func JSON(status int, body interface{}, format string, a ...interface{}) Result {
	return Result{
		Status:      status,
		InternalMsg: fmt.Sprintf(format, a...),
		kind:        kindJSON,
		body:        body,
	}
}

// Fail returns a JSON error Result that shows userMsg to the client.
func Fail(status int, userMsg, format string, a ...interface{}) Result {
	return JSON(status, ErrorBody{Error: userMsg, Status: status}, format, a...)
}

// Text returns a plain-text error Result. It is for when JSON encoding itself
// cannot be trusted.
func Text(status int, userMsg, format string, a ...interface{}) Result {
	return Result{
		Status:      status,
		InternalMsg: fmt.Sprintf(format, a...),
		kind:        kindText,
		body:        userMsg,
	}
}

// Redirect returns a Result that permanently redirects the client to uri.
func Redirect(uri string) Result {
	return Result{
		Status:      http.StatusPermanentRedirect,
		InternalMsg: "redirect -> " + uri,
		kind:        kindRedirect,
		header:      http.Header{"Location": {uri}},
	}
}

// OK returns an HTTP-200 Result with the given body.
func OK(body interface{}, format string, a ...interface{}) Result {
	return JSON(http.StatusOK, body, format, a...)
}

// Created returns an HTTP-201 Result with the given body.
func Created(body interface{}, format string, a ...interface{}) Result {
	return JSON(http.StatusCreated, body, format, a...)
}

// BadRequest returns an HTTP-400 Result that shows userMsg to the client.
func BadRequest(userMsg, format string, a ...interface{}) Result {
	return Fail(http.StatusBadRequest, userMsg, format, a...)
}

// NotFound returns an HTTP-404 Result.
func NotFound() Result {
	return Fail(http.StatusNotFound, "The requested resource was not found", "not found")
}

// MethodNotAllowed returns an HTTP-405 Result for req.
func MethodNotAllowed(req *http.Request) Result {
	return Fail(http.StatusMethodNotAllowed, fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path), "method not allowed")
}

// InternalServerError returns an HTTP-500 Result. The client only gets a
// generic message; the details go to the internal message.
func InternalServerError(format string, a ...interface{}) Result {
	return Fail(http.StatusInternalServerError, "An internal server error occurred", format, a...)
}

// WithHeader returns a copy of r that also sets the given header when
// written.
func (r Result) WithHeader(name, val string) Result {
	h := r.header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set(name, val)
	r.header = h
	return r
}

// Prepare encodes the body of r so that writing it cannot fail. It returns
// an error if the body cannot be encoded as JSON. Calling it again after it
// succeeds has no effect.
func (r *Result) Prepare() error {
	if r.encoded != nil {
		return nil
	}

	switch r.kind {
	case kindJSON:
		data, err := json.Marshal(r.body)
		if err != nil {
			return err
		}
		r.encoded = data
	case kindText:
		r.encoded = []byte(fmt.Sprint(r.body))
	default:
		r.encoded = []byte{}
	}
	return nil
}

// Write writes r to w. It panics if r was never populated or if its body
// cannot be encoded; call Prepare first to check for the latter.
func (r Result) Write(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if err := r.Prepare(); err != nil {
		panic(fmt.Sprintf("could not encode response: %s", err.Error()))
	}

	h := w.Header()
	switch r.kind {
	case kindJSON:
		h.Set("Content-Type", "application/json")
	case kindText:
		h.Set("Content-Type", "text/plain; charset=utf-8")
	}
	h.Set("X-Content-Type-Options", "nosniff")
	for name, vals := range r.header {
		h[name] = vals
	}

	w.WriteHeader(r.Status)
	w.Write(r.encoded)
}

// Package api provides HTTP API endpoints for the normalization server.
package api

import (
	"encoding/json"
	"log"
	"mime"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/chomsky/server/cnfs"
	"github.com/dekarrin/chomsky/server/result"
	"github.com/dekarrin/chomsky/server/serr"
)

// PathPrefix is where the API is mounted. Every path it serves starts with it.
const PathPrefix = "/api/v1"

// API turns HTTP requests into calls on a cnfs.Service. Its HTTP* methods
// give the handlers to route requests to.
//
// For direct programmatic access to a normalization server backend, use
// [cnfs.Service] instead.
type API struct {
	// Backend performs the requested actions.
	Backend cnfs.Service

	// StringsLength is the max length used by strings requests that do not
	// give one.
	StringsLength int

	// ErrorDelay is how long to pause before answering with an HTTP-405 or
	// HTTP-500.
	ErrorDelay time.Duration
}

// endpoint produces the result of a single request.
type endpoint func(req *http.Request) result.Result

// handler wraps ep in an http.HandlerFunc that recovers panics as HTTP-500s,
// logs every response, and waits out the API's ErrorDelay before sending a
// 405 or a 500.
func (api API) handler(ep endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer recoverTo500(w, req)

		r := ep(req)
		if r.Status == 0 {
			r = result.InternalServerError("endpoint gave no result")
		}
		if err := r.Prepare(); err != nil {
			r = result.InternalServerError("could not encode response: %s", err.Error())
		}

		if r.Status == http.StatusMethodNotAllowed || r.Status == http.StatusInternalServerError {
			time.Sleep(api.ErrorDelay)
		}

		logResponse(req, r)
		r.Write(w)
	}
}

// errResult gives the response for an error from the backend. Errors caused
// by the client show their message; any other error gives a generic HTTP-500
// and its message only goes to the log.
func errResult(err error) result.Result {
	switch status := serr.Status(err); status {
	case http.StatusNotFound:
		return result.Fail(status, "The requested resource was not found", "%s", err.Error())
	case http.StatusInternalServerError:
		return result.InternalServerError("%s", err.Error())
	default:
		return result.Fail(status, err.Error(), "%s", err.Error())
	}
}

// parseJSON decodes the JSON body of req into v, which must be a pointer. The
// returned error matches serr.ErrBadArgument if the body is not JSON and
// serr.ErrBodyUnmarshal if it cannot be decoded.
func parseJSON(req *http.Request, v interface{}) error {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(mediaType, "application/json") {
		return serr.New("request content-type is not application/json", serr.ErrBadArgument)
	}
	defer req.Body.Close()

	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}
	return nil
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same URL
// as the request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	r := result.Redirect(strings.TrimRight(req.URL.Path, "/"))
	logResponse(req, r)
	r.Write(w)
}

// NotFound is an http.HandlerFunc that gives a JSON HTTP-404.
func NotFound(w http.ResponseWriter, req *http.Request) {
	r := result.NotFound()
	logResponse(req, r)
	r.Write(w)
}

// MethodNotAllowed returns an http.HandlerFunc that gives a JSON HTTP-405
// after waiting for the API's ErrorDelay.
func (api API) MethodNotAllowed() http.HandlerFunc {
	return api.handler(result.MethodNotAllowed)
}

func recoverTo500(w http.ResponseWriter, req *http.Request) {
	panicVal := recover()
	if panicVal == nil {
		return
	}

	r := result.Text(
		http.StatusInternalServerError,
		"An internal server error occurred",
		"panic: %v\nSTACK TRACE: %s", panicVal, string(debug.Stack()),
	)
	logResponse(req, r)
	r.Write(w)
}

func logResponse(req *http.Request, r result.Result) {
	level := "INFO "
	if r.IsErr() {
		level = "ERROR"
	}

	// the client's ephemeral port is noise
	client, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		client = req.RemoteAddr
	}

	log.Printf("%s %s %s %s: HTTP-%d %s", level, client, req.Method, req.URL.Path, r.Status, r.InternalMsg)
}

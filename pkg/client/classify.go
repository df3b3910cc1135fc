package client

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// removedPoolsEndpoint is the aggregate pool listing removed in API v1.3.0.
	removedPoolsEndpoint = "/pools"

	poolsAlternative   = `network-specific endpoints like Pools.ListByNetwork(ctx, "ethereum", options)`
	genericAlternative = "check API documentation for alternatives"

	unknownResource = "unknown"
	unknownAPIError = "Unknown API error"
)

var networkPathPattern = regexp.MustCompile(`/networks/([^/]+)`)

// failure is a failed response as seen by the classification rules.
type failure struct {
	status  int
	message string
	path    string
	params  Params
}

// classifyRule specializes a failed response into a typed error.
// The message matching below is the only signal the API offers today;
// replace a rule's match when a structured error code becomes available.
type classifyRule struct {
	name  string
	match func(f failure) bool
	build func(f failure) *Error
}

// classifyRules are evaluated in order; the first match wins.
var classifyRules = []classifyRule{
	{
		name:  "deprecated_endpoint",
		match: func(f failure) bool { return f.status == http.StatusGone },
		build: func(f failure) *Error {
			if f.path == removedPoolsEndpoint {
				return NewDeprecatedEndpointError(removedPoolsEndpoint, poolsAlternative)
			}
			return NewDeprecatedEndpointError(f.path, genericAlternative)
		},
	},
	{
		name: "network_not_found",
		match: func(f failure) bool {
			return f.status == http.StatusNotFound && mentions(f.message, "network")
		},
		build: func(f failure) *Error {
			return NewNetworkNotFoundError(networkID(f.path, f.params))
		},
	},
	{
		name: "pool_not_found",
		match: func(f failure) bool {
			return f.status == http.StatusNotFound &&
				(mentions(f.message, "pool") || strings.Contains(f.path, "/pools/"))
		},
		build: func(f failure) *Error {
			return NewPoolNotFoundError(lastSegment(f.path))
		},
	},
}

// Classify turns a failed call to path into a typed *Error.
//
// Failures without an HTTP response become KindTransport errors. Responses are
// matched against the classification rules and otherwise become KindAPI errors
// carrying the status code. An *Error is returned as is.
func Classify(err error, path string, params Params) error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || !httpErr.HasResponse() {
		return NewTransportError(err.Error(), err)
	}

	f := failure{
		status:  httpErr.StatusCode,
		message: responseMessage(httpErr.Body),
		path:    path,
		params:  params,
	}

	for _, rule := range classifyRules {
		if rule.match(f) {
			e := rule.build(f)
			e.Err = err
			return e
		}
	}

	e := NewAPIError(f.message, f.status)
	e.Err = err
	return e
}

// responseMessage extracts the server message from a JSON error body.
// Prefers "error", then "message", then a fixed fallback.
func responseMessage(body []byte) string {
	for _, field := range []string{"error", "message"} {
		if msg := gjson.GetBytes(body, field).String(); msg != "" {
			return msg
		}
	}
	return unknownAPIError
}

// mentions reports whether message contains word, case-insensitively.
func mentions(message, word string) bool {
	return strings.Contains(strings.ToLower(message), word)
}

// networkID recovers the network from params, then from the path.
func networkID(path string, params Params) string {
	if v, ok := params["network"]; ok && v != nil {
		if id := fmt.Sprint(v); id != "" {
			return id
		}
	}
	if m := networkPathPattern.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return unknownResource
}

// lastSegment returns the final path segment, or "unknown" if it is empty.
func lastSegment(path string) string {
	segment := path[strings.LastIndex(path, "/")+1:]
	if segment == "" {
		return unknownResource
	}
	return segment
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Params are query parameters for a request.
type Params = map[string]any

// Request is a single call to the DexPaprika API.
type Request struct {
	Method string
	URL    string
	Params Params

	// Body is JSON-encoded for POST requests. Nil means no body.
	Body any
}

// Response is a successful (2xx) API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs API calls.
//
// Implementations return *Response for 2xx responses and *HTTPError otherwise.
// An HTTPError with StatusCode 0 means no response was obtained.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// HTTPError is a failed transport call.
type HTTPError struct {
	// StatusCode is 0 when the request never produced a response.
	StatusCode int
	Header     http.Header
	Body       []byte

	// Err is the connectivity failure when StatusCode is 0.
	Err error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if !e.HasResponse() {
		if e.Err != nil {
			return e.Err.Error()
		}
		return "request failed without a response"
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// HasResponse reports whether an HTTP response was received.
func (e *HTTPError) HasResponse() bool {
	return e.StatusCode != 0
}

// HTTPStatus returns the response status, 0 if there was none.
func (e *HTTPError) HTTPStatus() int {
	return e.StatusCode
}

// HTTPTransport is the default net/http based Transport.
type HTTPTransport struct {
	client    *http.Client
	userAgent string
}

// NewHTTPTransport creates a transport. A nil client uses a new http.Client
// without a timeout.
func NewHTTPTransport(client *http.Client, userAgent string) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPTransport{
		client:    client,
		userAgent: userAgent,
	}
}

// Do executes the request and reads the full response body.
func (t *HTTPTransport) Do(ctx context.Context, req Request) (*Response, error) {
	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, &HTTPError{Err: fmt.Errorf("parse url: %w", err)}
	}
	if len(req.Params) > 0 {
		query := target.Query()
		for key, value := range encodeParams(req.Params) {
			query[key] = value
		}
		target.RawQuery = query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &HTTPError{Err: fmt.Errorf("encode request body: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, &HTTPError{Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &HTTPError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HTTPError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       data,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       data,
	}, nil
}

// CloseIdleConnections closes idle keep-alive connections.
func (t *HTTPTransport) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}

// encodeParams converts params to url.Values. Nil values are skipped.
func encodeParams(params Params) url.Values {
	values := make(url.Values, len(params))
	for key, value := range params {
		switch v := value.(type) {
		case nil:
			continue
		case []string:
			values[key] = append([]string(nil), v...)
		default:
			values.Set(key, fmt.Sprint(v))
		}
	}
	return values
}

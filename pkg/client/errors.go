package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrDexPaprika matches every error produced by the error classifier.
	ErrDexPaprika = errors.New("dexpaprika error")

	// ErrTransport matches failures where no HTTP response was obtained.
	ErrTransport = errors.New("transport error")

	// ErrAPI matches non-2xx responses that were not specialized further.
	ErrAPI = errors.New("api error")

	// ErrDeprecatedEndpoint matches calls to endpoints removed upstream (410 Gone).
	ErrDeprecatedEndpoint = errors.New("deprecated endpoint")

	// ErrNetworkNotFound matches 404 responses about an unknown network.
	ErrNetworkNotFound = errors.New("network not found")

	// ErrPoolNotFound matches 404 responses about an unknown pool.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrInvalidConfig is returned by New for unusable configuration.
	ErrInvalidConfig = errors.New("invalid config")
)

// changelogURL is referenced by deprecated endpoint errors.
const changelogURL = "https://docs.dexpaprika.com/changelog/changelog"

// Kind discriminates the error taxonomy.
type Kind string

const (
	// KindTransport means no HTTP response was obtained.
	KindTransport Kind = "transport"

	// KindAPI is a non-2xx response not otherwise classified.
	KindAPI Kind = "api"

	// KindDeprecated is a 410 Gone for a removed endpoint.
	KindDeprecated Kind = "deprecated_endpoint"

	// KindNetworkNotFound is a 404 for an unknown network.
	KindNetworkNotFound Kind = "network_not_found"

	// KindPoolNotFound is a 404 for an unknown pool.
	KindPoolNotFound Kind = "pool_not_found"
)

// sentinel returns the package error matched by errors.Is for the kind.
func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindAPI:
		return ErrAPI
	case KindDeprecated:
		return ErrDeprecatedEndpoint
	case KindNetworkNotFound:
		return ErrNetworkNotFound
	case KindPoolNotFound:
		return ErrPoolNotFound
	default:
		return nil
	}
}

// Error is a classified DexPaprika error.
// Use Kind (or errors.Is with the Err* sentinels) to tell errors apart.
type Error struct {
	Kind Kind

	// Message is the human-readable description.
	Message string

	// StatusCode is the HTTP status, 0 for transport errors.
	StatusCode int

	// Endpoint and Alternative are set for deprecated endpoint errors.
	Endpoint    string
	Alternative string

	// Resource is the missing network ID or pool address for not-found errors.
	Resource string

	// Err is the underlying failure, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches ErrDexPaprika and the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	if target == ErrDexPaprika {
		return true
	}
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// HTTPStatus returns the HTTP status code carried by the error.
func (e *Error) HTTPStatus() int {
	return e.StatusCode
}

// NewTransportError creates an error for a failure without an HTTP response.
func NewTransportError(message string, err error) *Error {
	if message == "" {
		message = "Unknown error occurred"
	}
	return &Error{
		Kind:    KindTransport,
		Message: message,
		Err:     err,
	}
}

// NewAPIError creates a generic status-coded API error.
func NewAPIError(message string, statusCode int) *Error {
	return &Error{
		Kind:       KindAPI,
		Message:    fmt.Sprintf("API Error (%d): %s", statusCode, message),
		StatusCode: statusCode,
	}
}

// NewDeprecatedEndpointError creates an error for a removed endpoint.
func NewDeprecatedEndpointError(endpoint, alternative string) *Error {
	return &Error{
		Kind: KindDeprecated,
		Message: fmt.Sprintf("The %s endpoint has been deprecated and removed. "+
			"Please use %s instead. For more information, visit: %s",
			endpoint, alternative, changelogURL),
		StatusCode:  410,
		Endpoint:    endpoint,
		Alternative: alternative,
	}
}

// NewNetworkNotFoundError creates a not-found error for a network.
func NewNetworkNotFoundError(networkID string) *Error {
	return &Error{
		Kind:       KindNetworkNotFound,
		Message:    fmt.Sprintf("Network not found: %s", networkID),
		StatusCode: 404,
		Resource:   networkID,
	}
}

// NewPoolNotFoundError creates a not-found error for a pool.
func NewPoolNotFoundError(poolAddress string) *Error {
	return &Error{
		Kind:       KindPoolNotFound,
		Message:    fmt.Sprintf("Pool not found: %s", poolAddress),
		StatusCode: 404,
		Resource:   poolAddress,
	}
}

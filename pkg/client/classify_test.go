package client

import (
	"errors"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		path         string
		params       Params
		wantKind     Kind
		wantStatus   int
		wantResource string
		wantMessage  string
	}{
		{
			name:        "connection failure",
			err:         &HTTPError{Err: errors.New("dial tcp: connection refused")},
			path:        "/networks",
			wantKind:    KindTransport,
			wantMessage: "dial tcp: connection refused",
		},
		{
			name:        "plain error without response",
			err:         errors.New("socket hang up"),
			path:        "/networks",
			wantKind:    KindTransport,
			wantMessage: "socket hang up",
		},
		{
			name:       "deprecated pools endpoint",
			err:        &HTTPError{StatusCode: 410, Body: []byte(`{"error":"gone"}`)},
			path:       "/pools",
			wantKind:   KindDeprecated,
			wantStatus: 410,
		},
		{
			name:        "deprecated other endpoint",
			err:         &HTTPError{StatusCode: 410},
			path:        "/old/thing",
			wantKind:    KindDeprecated,
			wantStatus:  410,
			wantMessage: "check API documentation for alternatives",
		},
		{
			name:         "network not found from path",
			err:          &HTTPError{StatusCode: 404, Body: []byte(`{"message":"network not found"}`)},
			path:         "/networks/doesnotexist/pools",
			wantKind:     KindNetworkNotFound,
			wantStatus:   404,
			wantResource: "doesnotexist",
		},
		{
			name:         "network not found prefers params",
			err:          &HTTPError{StatusCode: 404, Body: []byte(`{"error":"Network is unknown"}`)},
			path:         "/networks/fromPath/pools",
			params:       Params{"network": "fromParams"},
			wantKind:     KindNetworkNotFound,
			wantStatus:   404,
			wantResource: "fromParams",
		},
		{
			name:         "network not found without id",
			err:          &HTTPError{StatusCode: 404, Body: []byte(`{"error":"NETWORK missing"}`)},
			path:         "/search",
			wantKind:     KindNetworkNotFound,
			wantStatus:   404,
			wantResource: "unknown",
		},
		{
			name:         "pool not found by message",
			err:          &HTTPError{StatusCode: 404, Body: []byte(`{"error":"Pool does not exist"}`)},
			path:         "/tokens/0xabc/pools",
			wantKind:     KindPoolNotFound,
			wantStatus:   404,
			wantResource: "pools",
		},
		{
			name:         "pool not found by path",
			err:          &HTTPError{StatusCode: 404, Body: []byte(`{"error":"not found"}`)},
			path:         "/networks/ethereum/pools/0xdeadbeef",
			wantKind:     KindPoolNotFound,
			wantStatus:   404,
			wantResource: "0xdeadbeef",
		},
		{
			name:         "network message wins over pool path",
			err:          &HTTPError{StatusCode: 404, Body: []byte(`{"error":"network not supported"}`)},
			path:         "/networks/foo/pools/0xdeadbeef",
			wantKind:     KindNetworkNotFound,
			wantStatus:   404,
			wantResource: "foo",
		},
		{
			name:         "pool not found with trailing slash",
			err:          &HTTPError{StatusCode: 404, Body: []byte(`{"error":"pool missing"}`)},
			path:         "/networks/ethereum/pools/",
			wantKind:     KindPoolNotFound,
			wantStatus:   404,
			wantResource: "unknown",
		},
		{
			name:        "404 without hints falls through to api error",
			err:         &HTTPError{StatusCode: 404, Body: []byte(`{"error":"token not found"}`)},
			path:        "/networks/ethereum/tokens/0xabc",
			wantKind:    KindAPI,
			wantStatus:  404,
			wantMessage: "API Error (404): token not found",
		},
		{
			name:        "api error prefers error field",
			err:         &HTTPError{StatusCode: 500, Body: []byte(`{"error":"boom","message":"ignored"}`)},
			path:        "/stats",
			wantKind:    KindAPI,
			wantStatus:  500,
			wantMessage: "API Error (500): boom",
		},
		{
			name:        "api error falls back to message field",
			err:         &HTTPError{StatusCode: 400, Body: []byte(`{"message":"limit too large"}`)},
			path:        "/networks/ethereum/pools",
			wantKind:    KindAPI,
			wantStatus:  400,
			wantMessage: "API Error (400): limit too large",
		},
		{
			name:        "api error with unparseable body",
			err:         &HTTPError{StatusCode: 502, Body: []byte(`<html>bad gateway</html>`)},
			path:        "/networks",
			wantKind:    KindAPI,
			wantStatus:  502,
			wantMessage: "API Error (502): Unknown API error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.err, tt.path, tt.params)

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("Classify() = %T, want *Error", err)
			}
			if e.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", e.Kind, tt.wantKind)
			}
			if e.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", e.StatusCode, tt.wantStatus)
			}
			if tt.wantResource != "" && e.Resource != tt.wantResource {
				t.Errorf("Resource = %q, want %q", e.Resource, tt.wantResource)
			}
			if tt.wantMessage != "" && !strings.Contains(e.Message, tt.wantMessage) {
				t.Errorf("Message = %q, want it to contain %q", e.Message, tt.wantMessage)
			}
			if !errors.Is(err, tt.err) {
				t.Error("classified error should wrap the original failure")
			}
		})
	}
}

func TestClassify_DeprecatedPoolsSuggestsNetworkListing(t *testing.T) {
	err := Classify(&HTTPError{StatusCode: 410}, "/pools", nil)

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("Classify() = %T, want *Error", err)
	}
	if e.Endpoint != "/pools" {
		t.Errorf("Endpoint = %q, want /pools", e.Endpoint)
	}
	if !strings.Contains(e.Alternative, "ListByNetwork") {
		t.Errorf("Alternative = %q, want it to reference ListByNetwork", e.Alternative)
	}
}

func TestClassify_PassesThroughClassifiedErrors(t *testing.T) {
	original := NewPoolNotFoundError("0x1")

	if got := Classify(original, "/whatever", nil); got != original {
		t.Errorf("Classify() = %v, want the same *Error", got)
	}
	if Classify(nil, "/x", nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *ParseError
		wantAll []string
	}{
		{
			name: "missing colon",
			err:  &ParseError{Line: 4, Content: "invalid", Kind: MissingColon},
			wantAll: []string{"line 4", "MissingColon", "invalid"},
		},
		{
			name: "unexpected continuation",
			err:  &ParseError{Line: 1, Content: "  stray", Kind: UnexpectedContinuation},
			wantAll: []string{"line 1", "UnexpectedContinuation", "stray"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, want := range tt.wantAll {
				if !strings.Contains(got, want) {
					t.Errorf("ParseError.Error() missing expected substring:\ngot:  %q\nwant: %q", got, want)
				}
			}
		})
	}
}

func TestIncompleteError_Error(t *testing.T) {
	err := &IncompleteError{Line: 7}
	got := err.Error()
	if !strings.Contains(got, "line 7") {
		t.Errorf("IncompleteError.Error() = %q, want substring %q", got, "line 7")
	}
}

func TestTypedError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("bad cidr")
	err := &TypedError{ObjectType: "inetnum", Field: "inetnum", Message: "invalid range", Err: underlying}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is(TypedError, underlying) = false, want true")
	}

	var typedErr *TypedError
	if !errors.As(error(err), &typedErr) {
		t.Error("errors.As(error, *TypedError) = false, want true")
	}
}

func TestNetError_Error(t *testing.T) {
	err := &NetError{Operation: "download rpsl db", Err: fmt.Errorf("connection reset"), Details: "arin"}
	got := err.Error()
	for _, want := range []string{"network error", "download rpsl db", "connection reset", "arin"} {
		if !strings.Contains(got, want) {
			t.Errorf("NetError.Error() missing expected substring:\ngot:  %q\nwant: %q", got, want)
		}
	}

	underlying := fmt.Errorf("reset by peer")
	wrapped := &NetError{Operation: "connect", Err: underlying}
	if !errors.Is(wrapped, underlying) {
		t.Error("errors.Is(NetError, underlying) = false, want true")
	}
}

func TestTimeoutError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("deadline exceeded")
	err := &TimeoutError{Operation: "tls handshake", Err: underlying}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is(TimeoutError, underlying) = false, want true")
	}
}

func TestDnsError_Error(t *testing.T) {
	err := &DnsError{Kind: TooManyRedirects, Name: "example.com."}
	got := err.Error()
	for _, want := range []string{"example.com.", "TooManyRedirects"} {
		if !strings.Contains(got, want) {
			t.Errorf("DnsError.Error() missing expected substring:\ngot:  %q\nwant: %q", got, want)
		}
	}
}

func TestStoreError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("unique constraint failed")
	err := &StoreError{Operation: "upsert", Err: underlying}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is(StoreError, underlying) = false, want true")
	}
}

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "/chat", "chat failed")

	expected := "API error [400] at /chat: chat failed"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "/chat", "chat failed")
	if noStatus.Error() != "API error at /chat: chat failed" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestAPIErrorWithBody(t *testing.T) {
	err := NewAPIErrorWithBody(500, "/summarize", "summarize failed", `{"error":"boom"}`)

	if GetHTTPStatus(err) != 500 {
		t.Errorf("GetHTTPStatus() = %d, want 500", GetHTTPStatus(err))
	}
	if GetEndpoint(err) != "/summarize" {
		t.Errorf("GetEndpoint() = %s, want /summarize", GetEndpoint(err))
	}
	if GetResponseBody(err) != `{"error":"boom"}` {
		t.Errorf("GetResponseBody() = %s", GetResponseBody(err))
	}

	wrapped := fmt.Errorf("request: %w", err)
	if !IsAPIError(wrapped) {
		t.Error("expected wrapped APIError to be detected")
	}
	if GetHTTPStatus(wrapped) != 500 {
		t.Error("expected status through wrapping")
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkErrorWithEndpoint("chat", "/chat", cause)

	if !IsNetworkError(err) {
		t.Error("expected IsNetworkError to be true")
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
	if GetEndpoint(err) != "/chat" {
		t.Errorf("GetEndpoint() = %s", GetEndpoint(err))
	}
	if IsTimeoutError(err) {
		t.Error("network error is not a timeout")
	}

	plain := NewNetworkError("chat", cause)
	if plain.Error() != "network error during chat: connection refused" {
		t.Errorf("Error() = %s", plain.Error())
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("after 30s")

	if err.Error() != "request timed out: after 30s" {
		t.Errorf("Error() = %s", err.Error())
	}
	if NewTimeoutError("").Error() != "request timed out" {
		t.Error("unexpected empty message text")
	}
	if !IsTimeoutError(fmt.Errorf("wrap: %w", err)) {
		t.Error("expected IsTimeoutError through wrapping")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing field", "response")

	if err.Error() != `parse error: missing field (field "response")` {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("expected ParseError to match ErrInvalidResponse")
	}
	if !IsParseError(err) {
		t.Error("expected IsParseError to be true")
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("ParseError must not match ErrNetwork")
	}
}

func TestUploadError(t *testing.T) {
	cause := errors.New("no such file")
	err := NewUploadError("doc.pdf", "cannot open", cause)

	if !IsUploadError(err) {
		t.Error("expected IsUploadError to be true")
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
	if err.Error() != "upload of doc.pdf failed: cannot open: no such file" {
		t.Errorf("Error() = %s", err.Error())
	}
}

func TestExtractorsOnForeignErrors(t *testing.T) {
	err := errors.New("plain")

	if GetHTTPStatus(err) != 0 {
		t.Error("expected 0 status")
	}
	if GetEndpoint(err) != "" {
		t.Error("expected empty endpoint")
	}
	if GetResponseBody(err) != "" {
		t.Error("expected empty body")
	}
	if IsNetworkError(err) || IsTimeoutError(err) || IsParseError(err) || IsUploadError(err) {
		t.Error("plain error matched a typed category")
	}
}

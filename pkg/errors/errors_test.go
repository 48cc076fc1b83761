package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeEmptyDraft, http.StatusBadRequest},
		{CodeMissingCredential, http.StatusUnauthorized},
		{CodeDraftTooLong, http.StatusUnprocessableEntity},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeLLMProviderError, http.StatusBadGateway},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := New(tt.code, "x").HTTPStatus; got != tt.want {
			t.Errorf("code %s: got %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("validate: %w", ErrDraftTooLong.WithDetail("701 words"))
	if !stderrors.Is(err, ErrDraftTooLong) {
		t.Error("expected wrapped error to match ErrDraftTooLong")
	}
	if stderrors.Is(err, ErrMissingCredential) {
		t.Error("unexpected match with ErrMissingCredential")
	}
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	_ = ErrMissingCredential.WithDetail("changed")
	if ErrMissingCredential.Detail != "" {
		t.Errorf("sentinel detail mutated: %q", ErrMissingCredential.Detail)
	}
}

func TestRawReturnsProviderError(t *testing.T) {
	raw := stderrors.New("401 Unauthorized: invalid api key")
	wrapped := ErrProvider.WithError(raw)
	if got := Raw(wrapped); got != raw {
		t.Errorf("Raw: got %v, want %v", got, raw)
	}
	if got := AsAppError(wrapped); got.Code != CodeLLMProviderError {
		t.Errorf("AsAppError code: got %s", got.Code)
	}
}

func TestUserMessage(t *testing.T) {
	raw := stderrors.New("error, status code: 401, message: Invalid API Key")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"provider error shown verbatim", ErrProvider.WithError(raw), raw.Error()},
		{"local validation message", ErrMissingCredential, "Please insert your API key."},
		{"plain error", stderrors.New("plain"), "plain"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	got := AsAppError(stderrors.New("plain"))
	if got.Code != CodeUnknown || got.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("got %+v", got)
	}
}

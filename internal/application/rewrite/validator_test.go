package rewrite

import (
	"errors"
	"strings"
	"testing"

	"text-rewriter-api/internal/config"
	"text-rewriter-api/internal/domain/entity"
	apperrors "text-rewriter-api/pkg/errors"
)

func newTestValidator(maxWords int) *Validator {
	cfg := &config.Config{}
	cfg.Rewrite.MaxWords = maxWords
	return NewValidator(cfg)
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two", 2},
		{"  one\ttwo\nthree  ", 3},
		{words(700), 700},
	}
	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNewValidatorDefaultsMaxWords(t *testing.T) {
	if got := NewValidator(&config.Config{}).MaxWords(); got != DefaultMaxWords {
		t.Fatalf("MaxWords = %d, want %d", got, DefaultMaxWords)
	}
}

func TestValidateLengthBoundary(t *testing.T) {
	v := newTestValidator(700)

	if err := v.ValidateLength(words(700)); err != nil {
		t.Fatalf("700 words should pass, got %v", err)
	}

	err := v.ValidateLength(words(701))
	if !errors.Is(err, apperrors.ErrDraftTooLong) {
		t.Fatalf("701 words: got %v, want ErrDraftTooLong", err)
	}
	msg := apperrors.UserMessage(err)
	if !strings.Contains(msg, "700") {
		t.Fatalf("message should name the limit, got %q", msg)
	}
}

func TestValidateCredential(t *testing.T) {
	v := newTestValidator(700)
	for _, c := range []string{"", "   ", "\t"} {
		if err := v.ValidateCredential(c); !errors.Is(err, apperrors.ErrMissingCredential) {
			t.Errorf("ValidateCredential(%q) = %v, want ErrMissingCredential", c, err)
		}
	}
	if err := v.ValidateCredential("gsk_abc"); err != nil {
		t.Errorf("non-empty credential: %v", err)
	}
}

func TestValidateOrder(t *testing.T) {
	v := newTestValidator(5)
	tests := []struct {
		name string
		req  entity.RewriteRequest
		want error
	}{
		{"too long and no credential", entity.RewriteRequest{Draft: words(6)}, apperrors.ErrDraftTooLong},
		{"no credential", entity.RewriteRequest{Draft: words(2)}, apperrors.ErrMissingCredential},
		{"empty draft", entity.RewriteRequest{Credential: "k"}, apperrors.ErrEmptyDraft},
		{"empty draft and no credential", entity.RewriteRequest{Draft: "  "}, apperrors.ErrEmptyDraft},
		{"ok", entity.RewriteRequest{Credential: "k", Draft: words(5)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	reply    *schema.Message
	err      error
	calls    int
	received []*schema.Message
}

func (m *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	m.received = input
	return m.reply, m.err
}

func (m *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

type fakeFactory struct {
	model       *fakeChatModel
	err         error
	credentials []string
}

func (f *fakeFactory) New(_ context.Context, credential string) (model.BaseChatModel, error) {
	f.credentials = append(f.credentials, credential)
	if f.err != nil {
		return nil, f.err
	}
	return f.model, nil
}

func (f *fakeFactory) Provider() string { return "fake" }
func (f *fakeFactory) Model() string    { return "fake-model" }

func TestInvokeSendsSingleUserMessage(t *testing.T) {
	m := &fakeChatModel{reply: &schema.Message{
		Role:    schema.Assistant,
		Content: "Hello there!",
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 12, CompletionTokens: 3},
		},
	}}
	f := &fakeFactory{model: m}

	out, err := NewRewriteChain(f).Invoke(context.Background(), "the prompt", "gsk_test")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if m.calls != 1 {
		t.Errorf("calls: got %d, want 1", m.calls)
	}
	if len(m.received) != 1 || m.received[0].Role != schema.User || m.received[0].Content != "the prompt" {
		t.Errorf("unexpected input messages: %+v", m.received)
	}
	if len(f.credentials) != 1 || f.credentials[0] != "gsk_test" {
		t.Errorf("credential not passed through: %v", f.credentials)
	}
	if out.Content != "Hello there!" || out.Model != "fake-model" {
		t.Errorf("unexpected completion: %+v", out)
	}
	if out.PromptTokens != 12 || out.CompletionTokens != 3 {
		t.Errorf("usage: got %d/%d", out.PromptTokens, out.CompletionTokens)
	}
}

func TestInvokeReturnsProviderErrorUnchanged(t *testing.T) {
	providerErr := errors.New("error, status code: 401, message: Invalid API Key")
	m := &fakeChatModel{err: providerErr}

	_, err := NewRewriteChain(&fakeFactory{model: m}).Invoke(context.Background(), "p", "bad")
	if !errors.Is(err, providerErr) {
		t.Fatalf("got %v, want provider error", err)
	}
	if m.calls != 1 {
		t.Errorf("calls: got %d, want exactly 1 (no retry)", m.calls)
	}
}

func TestInvokeFactoryError(t *testing.T) {
	_, err := NewRewriteChain(&fakeFactory{err: errors.New("boom")}).Invoke(context.Background(), "p", "k")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestInvokeNilResponse(t *testing.T) {
	_, err := NewRewriteChain(&fakeFactory{model: &fakeChatModel{}}).Invoke(context.Background(), "p", "k")
	if err == nil {
		t.Fatal("expected error for nil message")
	}
}

func TestInvokeRequiresPrompt(t *testing.T) {
	m := &fakeChatModel{}
	_, err := NewRewriteChain(&fakeFactory{model: m}).Invoke(context.Background(), "  ", "k")
	if err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if m.calls != 0 {
		t.Error("model should not be called")
	}
}

package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
)

const samplePrompt = `Below is the draft text, tone, and dialect:
DRAFT: i live in an apartment
near the parking lot
TONE: Informal
DIALECT: British

YOUR British RESPONSE:`

func TestMockChatModelEchoesDraft(t *testing.T) {
	m := &MockChatModel{}
	out, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage(samplePrompt)})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out.Content, "i live in an apartment\nnear the parking lot") {
		t.Errorf("draft not echoed: %q", out.Content)
	}
	if !strings.Contains(out.Content, "(Informal, British)") {
		t.Errorf("tone/dialect missing: %q", out.Content)
	}
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil || out.ResponseMeta.Usage.PromptTokens == 0 {
		t.Error("expected usage metadata")
	}
}

func TestMockChatModelContextCancel(t *testing.T) {
	m := &MockChatModel{Delay: 5 * time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Generate(ctx, []*schema.Message{schema.UserMessage("x")}); err == nil {
		t.Fatal("expected error on cancelled context")
	}
}

func TestMockChatModelStream(t *testing.T) {
	m := &MockChatModel{}
	sr, err := m.Stream(context.Background(), []*schema.Message{schema.UserMessage(samplePrompt)})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer sr.Close()
	msg, err := sr.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if !strings.HasPrefix(msg.Content, "Hello") {
		t.Errorf("unexpected content: %q", msg.Content)
	}
}

package llm

import "testing"

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{Provider: "ollama", Model: "llama3"})
	if err != nil {
		t.Fatalf("ollama provider failed: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("expected ollama, got %s", p.Name())
	}

	p, err = NewProvider(Config{Provider: "OpenAI", APIKey: "sk-test", Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("openai provider failed: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("expected openai, got %s", p.Name())
	}
}

func TestNewProvider_EmptyDisablesModelBoundary(t *testing.T) {
	p, err := NewProvider(Config{})
	if err != nil {
		t.Fatalf("empty provider should not error: %v", err)
	}
	if p != nil {
		t.Error("empty provider name should yield a nil provider")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "anthropic"}); err == nil {
		t.Error("unknown provider should fail")
	}
}

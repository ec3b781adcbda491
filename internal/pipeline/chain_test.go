package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type observed struct {
	stage string
	text  string
}

func TestChainSequentialOutputs(t *testing.T) {
	chain := NewChain(nil, nil)
	stages := []Stage{
		{Name: "first", Run: func(ctx context.Context, c *Chain) (string, error) {
			return "eins", nil
		}},
		{Name: "second", Run: func(ctx context.Context, c *Chain) (string, error) {
			return c.Output("first") + "+zwei", nil
		}},
	}

	if err := chain.Run(context.Background(), stages); err != nil {
		t.Fatal(err)
	}
	if got := chain.Output("second"); got != "eins+zwei" {
		t.Errorf("second output = %q", got)
	}
	if len(chain.Warnings()) != 0 {
		t.Errorf("unexpected warnings %v", chain.Warnings())
	}
}

func TestChainStreamingObserverOrder(t *testing.T) {
	var calls []observed
	chain := NewChain(func(stage, accumulated string) {
		calls = append(calls, observed{stage, accumulated})
	}, nil)

	stages := []Stage{
		{Name: "streaming", Run: func(ctx context.Context, c *Chain) (string, error) {
			c.Observe("Ana")
			c.Observe("Analyse")
			c.Observe("Analyse fertig")
			return "Analyse fertig", nil
		}},
	}
	if err := chain.Run(context.Background(), stages); err != nil {
		t.Fatal(err)
	}

	if len(calls) != 3 {
		t.Fatalf("expected 3 observer calls, got %d", len(calls))
	}
	for i := 1; i < len(calls); i++ {
		if !strings.HasPrefix(calls[i].text, calls[i-1].text) {
			t.Errorf("call %d is not a growing prefix: %q -> %q", i, calls[i-1].text, calls[i].text)
		}
	}
	if calls[2].text != "Analyse fertig" || calls[2].stage != "streaming" {
		t.Errorf("last call = %+v", calls[2])
	}
}

func TestChainNonStreamingStageNotifiesOnce(t *testing.T) {
	var calls []observed
	chain := NewChain(func(stage, accumulated string) {
		calls = append(calls, observed{stage, accumulated})
	}, nil)

	stages := []Stage{
		{Name: "plain", Run: func(ctx context.Context, c *Chain) (string, error) {
			return "komplett", nil
		}},
	}
	if err := chain.Run(context.Background(), stages); err != nil {
		t.Fatal(err)
	}

	if len(calls) != 1 {
		t.Fatalf("expected exactly 1 observer call, got %d", len(calls))
	}
	if calls[0].stage != "plain" || calls[0].text != "komplett" {
		t.Errorf("call = %+v", calls[0])
	}
}

func TestChainFallbackContinues(t *testing.T) {
	chain := NewChain(nil, nil)
	stages := []Stage{
		{Name: "flaky", Fallback: "Keine Analyse verfügbar.", Run: func(ctx context.Context, c *Chain) (string, error) {
			return "", errors.New("upstream down")
		}},
		{Name: "dependent", Run: func(ctx context.Context, c *Chain) (string, error) {
			return "gesehen: " + c.Output("flaky"), nil
		}},
	}

	if err := chain.Run(context.Background(), stages); err != nil {
		t.Fatal(err)
	}
	if got := chain.Output("dependent"); got != "gesehen: Keine Analyse verfügbar." {
		t.Errorf("dependent output = %q", got)
	}
	warnings := chain.Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "flaky") || !strings.Contains(warnings[0], "upstream down") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestChainAbortsWithoutFallback(t *testing.T) {
	ran := false
	chain := NewChain(nil, nil)
	stages := []Stage{
		{Name: "fatal", Run: func(ctx context.Context, c *Chain) (string, error) {
			return "", fmt.Errorf("parse failed")
		}},
		{Name: "never", Run: func(ctx context.Context, c *Chain) (string, error) {
			ran = true
			return "", nil
		}},
	}

	err := chain.Run(context.Background(), stages)
	if err == nil || !strings.Contains(err.Error(), "fatal") {
		t.Fatalf("err = %v", err)
	}
	if ran {
		t.Error("downstream stage ran after a fatal failure")
	}
}

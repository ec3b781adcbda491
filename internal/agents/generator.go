package agents

import "context"

// Generator is the generative-text collaborator every agent talks to. The
// concrete implementation lives in internal/llm; tests substitute mocks.
type Generator interface {
	Generate(ctx context.Context, system, user string, temperature float32) (string, error)
	GenerateJSON(ctx context.Context, system, user string, temperature float32, out any) error
	Stream(ctx context.Context, system, user string, temperature float32, onText func(accumulated string)) (string, error)
}

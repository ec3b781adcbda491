package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// StatusObserver receives coarse progress messages before each major step.
type StatusObserver func(msg string)

// StreamObserver receives (stage, accumulated text) pairs while a streaming
// stage is producing output. Calls happen synchronously on the stage's own
// goroutine, in production order, strictly before the stage completes.
type StreamObserver func(stage, accumulated string)

// Stage is one transformation step of a chain. A stage with a non-empty
// Fallback is recoverable: on failure its fallback text is substituted and
// the chain continues with a warning. A stage without a fallback aborts the
// whole chain on failure.
type Stage struct {
	Name     string
	Fallback string
	Run      func(ctx context.Context, c *Chain) (string, error)
}

// Chain executes stages strictly in order; stage i sees the outputs of
// stages 0..i-1 via Output.
type Chain struct {
	observer StreamObserver
	log      *logrus.Logger

	outputs  map[string]string
	warnings []string

	current string
	emitted int
}

// NewChain builds an empty chain. observer may be nil.
func NewChain(observer StreamObserver, log *logrus.Logger) *Chain {
	return &Chain{
		observer: observer,
		log:      log,
		outputs:  make(map[string]string),
	}
}

// Output returns the text produced by an earlier stage ("" if absent).
func (c *Chain) Output(name string) string {
	return c.outputs[name]
}

// Warnings returns the warnings accumulated by recoverable stage failures.
func (c *Chain) Warnings() []string {
	return c.warnings
}

// Observe forwards accumulated text of the currently running stage to the
// chain observer. Stage implementations call this from their streaming
// callbacks; ordering is the production order because everything runs on one
// goroutine.
func (c *Chain) Observe(accumulated string) {
	c.emitted++
	if c.observer != nil {
		c.observer(c.current, accumulated)
	}
}

// Run executes the stages. On a fatal stage failure it returns the error and
// discards nothing already produced; downstream stages never run.
func (c *Chain) Run(ctx context.Context, stages []Stage) error {
	for _, st := range stages {
		c.current = st.Name
		c.emitted = 0

		out, err := st.Run(ctx, c)
		if err != nil {
			if st.Fallback == "" {
				return fmt.Errorf("stage %s: %w", st.Name, err)
			}
			if c.log != nil {
				c.log.Warnf("stage [%s] failed, using fallback: %v", st.Name, err)
			}
			c.warnings = append(c.warnings, fmt.Sprintf("%s: %v", st.Name, err))
			out = st.Fallback
		}
		c.outputs[st.Name] = out

		// Non-streaming stages notify exactly once, at completion.
		if c.emitted == 0 && c.observer != nil {
			c.observer(st.Name, out)
		}
	}
	return nil
}

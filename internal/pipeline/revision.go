package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"contentradar/internal/model"
)

// LoopState names the revision-loop states.
type LoopState string

const (
	StateDrafting   LoopState = "DRAFTING"
	StateCorrecting LoopState = "CORRECTING"
	StateEvaluating LoopState = "EVALUATING"
	StateAccepted   LoopState = "ACCEPTED"
	StateRevising   LoopState = "REVISING"
)

// RevisionLoop wraps a producer stage and a quality gate, with a corrector
// applied between them on every pass. The gate's feedback is fed back into
// the next producer pass until the gate passes or the budget runs out.
type RevisionLoop struct {
	// MaxRevisions is the number of passes allowed beyond the first.
	MaxRevisions int

	Produce  func(ctx context.Context, feedback string) (model.Article, error)
	Correct  func(ctx context.Context, draft model.Article) (model.Article, error)
	Evaluate func(ctx context.Context, article model.Article) (model.Evaluation, error)

	// OnState, if set, is notified of every transition with the 1-based
	// attempt number.
	OnState func(state LoopState, attempt int)

	Log *logrus.Logger
}

// LoopResult is the terminal outcome of a revision loop.
type LoopResult struct {
	Article    model.Article
	Evaluation model.Evaluation
	// Revisions counts REVISING transitions; 0 means accepted first pass.
	Revisions int
	// Forced is set when the budget ran out and the last article was
	// accepted with Evaluation.Passed still false.
	Forced   bool
	Warnings []string
}

func (l *RevisionLoop) state(s LoopState, attempt int) {
	if l.OnState != nil {
		l.OnState(s, attempt)
	}
}

// Run drives the state machine. A producer failure is fatal and returns an
// error with no article; corrector and gate failures degrade to defined
// fallbacks and the loop continues.
func (l *RevisionLoop) Run(ctx context.Context) (*LoopResult, error) {
	maxPasses := l.MaxRevisions + 1
	res := &LoopResult{}
	feedback := ""

	for pass := 0; pass < maxPasses; pass++ {
		attempt := pass + 1

		l.state(StateDrafting, attempt)
		draft, err := l.Produce(ctx, feedback)
		if err != nil {
			return nil, fmt.Errorf("producer (attempt %d/%d): %w", attempt, maxPasses, err)
		}

		l.state(StateCorrecting, attempt)
		corrected, err := l.Correct(ctx, draft)
		if err != nil {
			// Corrector failure: the draft passes through unchanged.
			if l.Log != nil {
				l.Log.Warnf("corrector failed (attempt %d/%d): %v", attempt, maxPasses, err)
			}
			res.Warnings = append(res.Warnings, fmt.Sprintf("corrector (attempt %d/%d): %v", attempt, maxPasses, err))
			corrected = draft
		}

		l.state(StateEvaluating, attempt)
		eval, err := l.Evaluate(ctx, corrected)
		if err != nil {
			// Gate failure counts as a non-pass with no feedback and
			// consumes one retry.
			if l.Log != nil {
				l.Log.Warnf("gate failed (attempt %d/%d): %v", attempt, maxPasses, err)
			}
			res.Warnings = append(res.Warnings, fmt.Sprintf("gate (attempt %d/%d): %v", attempt, maxPasses, err))
			eval = model.Evaluation{Passed: false, Feedback: ""}
		}

		res.Article = corrected
		res.Evaluation = eval

		if eval.Passed {
			l.state(StateAccepted, attempt)
			return res, nil
		}

		if pass < maxPasses-1 {
			l.state(StateRevising, attempt)
			res.Revisions++
			feedback = eval.Feedback
			continue
		}

		// Budget exhausted: the last article is returned as-is, with the
		// failed evaluation preserved so callers can tell this apart from a
		// genuine pass.
		res.Forced = true
		l.state(StateAccepted, attempt)
	}
	return res, nil
}

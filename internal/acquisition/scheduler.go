package acquisition

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultDeadline is the single wall-clock budget shared by all fetch
// operations of one acquisition run.
const DefaultDeadline = 45 * time.Second

// Task is one independent fetch operation. Run receives a context that is
// cancelled when the global deadline fires.
type Task struct {
	Name     string
	Required bool
	Run      func(ctx context.Context) (any, error)
}

// Result maps task names to fetched payloads. A missing key means the task
// failed or timed out; the warning slice says which, in task start order.
type Result struct {
	payloads  map[string]any
	Warnings  []string
	FetchedAt time.Time
}

// Get returns the raw payload for name.
func (r *Result) Get(name string) (any, bool) {
	v, ok := r.payloads[name]
	return v, ok
}

// Payload returns the payload for name as T, or T's zero value when the task
// failed, timed out, or produced a different type.
func Payload[T any](r *Result, name string) T {
	var zero T
	v, ok := r.payloads[name]
	if !ok {
		return zero
	}
	typed, ok := v.(T)
	if !ok {
		return zero
	}
	return typed
}

// Scheduler fans tasks out onto one goroutine each and collects whatever
// finishes before the deadline. Failures never cancel sibling tasks; tasks
// still pending at the deadline are abandoned and their eventual results
// discarded. No task is ever retried here.
type Scheduler struct {
	Deadline time.Duration
	Log      *logrus.Logger
}

// NewScheduler builds a scheduler with the given deadline (0 = default).
func NewScheduler(deadline time.Duration, log *logrus.Logger) *Scheduler {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &Scheduler{Deadline: deadline, Log: log}
}

// MissingRequired names the required tasks that produced no payload.
func MissingRequired(tasks []Task, r *Result) []string {
	var missing []string
	for _, t := range tasks {
		if !t.Required {
			continue
		}
		if _, ok := r.Get(t.Name); !ok {
			missing = append(missing, t.Name)
		}
	}
	return missing
}

type outcome struct {
	idx     int
	payload any
	err     error
	at      time.Time
}

// Fetch runs all tasks concurrently and returns within the deadline plus
// scheduling overhead.
func (s *Scheduler) Fetch(ctx context.Context, tasks []Task) *Result {
	cutoff := time.Now().Add(s.Deadline)
	fetchCtx, cancel := context.WithDeadline(ctx, cutoff)
	defer cancel()

	// Buffered so abandoned tasks can still send and terminate.
	results := make(chan outcome, len(tasks))
	for i, t := range tasks {
		go func(idx int, t Task) {
			payload, err := t.Run(fetchCtx)
			results <- outcome{idx: idx, payload: payload, err: err, at: time.Now()}
		}(i, t)
	}

	done := make([]bool, len(tasks))
	errs := make([]error, len(tasks))
	payloads := make([]any, len(tasks))

	// A result stamped at or after the cutoff is late even when it is
	// already sitting in the channel buffer: discarded, never merged.
	merge := func(out outcome) {
		if !out.at.Before(cutoff) {
			return
		}
		done[out.idx] = true
		errs[out.idx] = out.err
		payloads[out.idx] = out.payload
	}

	pending := len(tasks)
collect:
	for pending > 0 {
		select {
		case out := <-results:
			merge(out)
			pending--
		case <-fetchCtx.Done():
			break collect
		}
	}

	// Results queued before the cutoff did complete in time; only truly
	// pending or late tasks are treated as timed out.
drain:
	for pending > 0 {
		select {
		case out := <-results:
			merge(out)
			pending--
		default:
			break drain
		}
	}

	result := &Result{
		payloads:  make(map[string]any, len(tasks)),
		FetchedAt: time.Now(),
	}
	for i, t := range tasks {
		switch {
		case !done[i]:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: timed out after %s", t.Name, s.Deadline))
			if s.Log != nil {
				s.Log.Warnf("fetch task [%s] timed out after %s", t.Name, s.Deadline)
			}
		case errs[i] != nil:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: %v", t.Name, errs[i]))
			if s.Log != nil {
				s.Log.Warnf("fetch task [%s] failed: %v", t.Name, errs[i])
			}
		default:
			result.payloads[t.Name] = payloads[i]
		}
	}
	return result
}

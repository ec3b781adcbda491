package acquisition

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func sleepTask(name string, d time.Duration, payload any) Task {
	return Task{
		Name: name,
		Run: func(ctx context.Context) (any, error) {
			select {
			case <-time.After(d):
				return payload, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
}

func TestFetchAllComplete(t *testing.T) {
	s := NewScheduler(2*time.Second, nil)

	tasks := []Task{
		sleepTask("ga4", 10*time.Millisecond, []int{1, 2}),
		sleepTask("gsc", 20*time.Millisecond, "queries"),
		sleepTask("rss", 5*time.Millisecond, "articles"),
	}

	start := time.Now()
	res := s.Fetch(context.Background(), tasks)
	elapsed := time.Since(start)

	if len(res.Warnings) != 0 {
		t.Fatalf("Warnings = %v, want none", res.Warnings)
	}
	for _, name := range []string{"ga4", "gsc", "rss"} {
		if _, ok := res.Get(name); !ok {
			t.Errorf("missing payload for %q", name)
		}
	}
	if elapsed >= 2*time.Second {
		t.Errorf("elapsed %v, want well under deadline", elapsed)
	}
}

func TestFetchOneFails(t *testing.T) {
	s := NewScheduler(2*time.Second, nil)

	tasks := make([]Task, 0, 7)
	for _, name := range []string{"ga4", "ga4-90d", "gsc", "gsc-90d", "gsc-pages", "rss"} {
		tasks = append(tasks, sleepTask(name, time.Millisecond, name+"-data"))
	}
	tasks = append(tasks, Task{
		Name: "trends",
		Run: func(ctx context.Context) (any, error) {
			return nil, errors.New("quota exceeded")
		},
	})

	start := time.Now()
	res := s.Fetch(context.Background(), tasks)
	elapsed := time.Since(start)

	if got := len(res.Warnings); got != 1 {
		t.Fatalf("len(Warnings) = %d, want 1 (%v)", got, res.Warnings)
	}
	if !strings.Contains(res.Warnings[0], "trends") {
		t.Errorf("warning %q does not name the failed task", res.Warnings[0])
	}
	populated := 0
	for _, tk := range tasks {
		if _, ok := res.Get(tk.Name); ok {
			populated++
		}
	}
	if populated != 6 {
		t.Errorf("populated entries = %d, want 6", populated)
	}
	if elapsed >= 2*time.Second {
		t.Errorf("elapsed %v, want under deadline", elapsed)
	}
}

func TestFetchDeadline(t *testing.T) {
	deadline := 100 * time.Millisecond
	s := NewScheduler(deadline, nil)

	tasks := []Task{
		sleepTask("fast-1", 5*time.Millisecond, 1),
		sleepTask("slow-1", time.Second, 2),
		sleepTask("fast-2", 5*time.Millisecond, 3),
		sleepTask("slow-2", time.Second, 4),
	}

	start := time.Now()
	res := s.Fetch(context.Background(), tasks)
	elapsed := time.Since(start)

	if elapsed > deadline+200*time.Millisecond {
		t.Errorf("elapsed %v, want deadline plus bounded overhead", elapsed)
	}

	timeouts := 0
	for _, w := range res.Warnings {
		if strings.Contains(w, "timed out") {
			timeouts++
		}
	}
	if timeouts != 2 {
		t.Fatalf("timeout warnings = %d, want 2 (%v)", timeouts, res.Warnings)
	}
	if _, ok := res.Get("fast-1"); !ok {
		t.Error("fast-1 payload missing")
	}
	if _, ok := res.Get("fast-2"); !ok {
		t.Error("fast-2 payload missing")
	}
	if _, ok := res.Get("slow-1"); ok {
		t.Error("slow-1 payload present, want discarded")
	}
}

func TestFetchDiscardsResultAtDeadline(t *testing.T) {
	deadline := 50 * time.Millisecond
	s := NewScheduler(deadline, nil)

	// Completes the instant the deadline cancels its context, so its result
	// can sit in the channel buffer while Fetch is still collecting.
	tasks := []Task{{
		Name: "late",
		Run: func(ctx context.Context) (any, error) {
			<-ctx.Done()
			return "late-payload", nil
		},
	}}

	res := s.Fetch(context.Background(), tasks)

	if _, ok := res.Get("late"); ok {
		t.Error("payload produced at the deadline was merged, want discarded")
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "timed out") {
		t.Errorf("Warnings = %v, want one timeout warning", res.Warnings)
	}
}

func TestFetchWarningOrder(t *testing.T) {
	s := NewScheduler(time.Second, nil)

	fail := func(name string, d time.Duration) Task {
		return Task{Name: name, Run: func(ctx context.Context) (any, error) {
			time.Sleep(d)
			return nil, errors.New("boom")
		}}
	}

	// Completion order is reversed relative to start order; warnings must
	// still follow start order.
	tasks := []Task{
		fail("first", 50*time.Millisecond),
		fail("second", 25*time.Millisecond),
		fail("third", 5*time.Millisecond),
	}

	res := s.Fetch(context.Background(), tasks)
	want := []string{"first", "second", "third"}
	if len(res.Warnings) != len(want) {
		t.Fatalf("len(Warnings) = %d, want %d", len(res.Warnings), len(want))
	}
	for i, name := range want {
		if !strings.HasPrefix(res.Warnings[i], name+":") {
			t.Errorf("Warnings[%d] = %q, want prefix %q", i, res.Warnings[i], name)
		}
	}
}

func TestPayloadTyped(t *testing.T) {
	res := &Result{payloads: map[string]any{"nums": []int{1, 2, 3}}}

	if got := Payload[[]int](res, "nums"); len(got) != 3 {
		t.Errorf("Payload = %v, want 3 elements", got)
	}
	if got := Payload[[]int](res, "absent"); got != nil {
		t.Errorf("Payload for absent key = %v, want nil", got)
	}
	if got := Payload[string](res, "nums"); got != "" {
		t.Errorf("Payload with wrong type = %q, want zero value", got)
	}
}

func TestMissingRequired(t *testing.T) {
	tasks := []Task{
		{Name: "rss", Required: true},
		{Name: "trends"},
		{Name: "gsc", Required: true},
	}
	res := &Result{payloads: map[string]any{"gsc": []int{1}}}

	missing := MissingRequired(tasks, res)
	if len(missing) != 1 || missing[0] != "rss" {
		t.Errorf("missing = %v, want [rss]", missing)
	}

	res.payloads["rss"] = []int{2}
	if missing := MissingRequired(tasks, res); missing != nil {
		t.Errorf("missing = %v, want none", missing)
	}
}

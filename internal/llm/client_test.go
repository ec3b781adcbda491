package llm

import "testing"

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		if got := StripFences(tc.in); got != tc.want {
			t.Errorf("%s: StripFences(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestIsRateLimited(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"unexpected status code: 429", true},
		{"Too Many Requests", true},
		{"connection refused", false},
	}
	for _, tc := range cases {
		if got := isRateLimited(errString(tc.msg)); got != tc.want {
			t.Errorf("isRateLimited(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}

func TestDecodeIntoKeepsTargetCleanOnError(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
		Count int    `json:"count"`
	}

	var out payload
	// title decodes before count fails; out must stay untouched.
	if err := decodeInto(`{"title": "Halb", "count": "kaputt"}`, &out); err == nil {
		t.Fatal("expected a decode error")
	}
	if out.Title != "" || out.Count != 0 {
		t.Errorf("failed decode leaked partial fields: %+v", out)
	}

	if err := decodeInto(`{"title": "Ganz", "count": 2}`, &out); err != nil {
		t.Fatal(err)
	}
	if out.Title != "Ganz" || out.Count != 2 {
		t.Errorf("out = %+v", out)
	}
}

func TestDecodeIntoRejectsNonPointer(t *testing.T) {
	if err := decodeInto(`{}`, struct{}{}); err == nil {
		t.Error("expected an error for a non-pointer target")
	}
}

type errString string

func (e errString) Error() string { return string(e) }

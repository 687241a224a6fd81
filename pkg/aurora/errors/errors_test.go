package errors

import "testing"

func TestIsCatchable(t *testing.T) {
	cases := []struct {
		class Class
		want  bool
	}{
		{ClassLex, false},
		{ClassParse, false},
		{ClassRuntime, true},
		{ClassUser, true},
	}
	for _, c := range cases {
		if got := c.class.IsCatchable(); got != c.want {
			t.Errorf("%s.IsCatchable() = %v, want %v", c.class, got, c.want)
		}
	}
}

func TestNewRendersTemplate(t *testing.T) {
	err := New("RUNTIME-UNDEFINED-VARIABLE", map[string]any{"Name": "x"})
	if err.Message != "undefined variable x" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Class != ClassRuntime {
		t.Errorf("Class = %q", err.Class)
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("NOT-A-REAL-CODE", nil)
	if err.Message != "NOT-A-REAL-CODE" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestStringIncludesPosition(t *testing.T) {
	err := NewAt("RUNTIME-CONST-REASSIGNMENT", "main.aur", 3, 7, map[string]any{"Name": "c"})
	got := err.String()
	want := "cannot assign to const c at main.aur:3:7"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFindClosestMatch(t *testing.T) {
	m := FindClosestMatch("pritn", []string{"print", "push", "pop"})
	if m != "print" {
		t.Errorf("FindClosestMatch = %q, want print", m)
	}
	if got := FindClosestMatch("print", []string{"print"}); got != "" {
		t.Errorf("exact match should not suggest itself, got %q", got)
	}
}

func TestNewUndefinedVariableHint(t *testing.T) {
	err := NewUndefinedVariable("pritn", "main.aur", 1, 1, []string{"print", "push"})
	if len(err.Hints) == 0 {
		t.Fatal("expected a hint")
	}
}

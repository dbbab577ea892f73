package token

import "testing"

func TestSetOverwritesBoth(t *testing.T) {
	s := NewStore()
	s.Set("a1", "r1")
	s.Set("a2", "r2")
	if s.Access() != "a2" || s.Refresh() != "r2" {
		t.Fatalf("expected a2/r2, got %q/%q", s.Access(), s.Refresh())
	}
}

func TestClearResetsToAbsent(t *testing.T) {
	s := NewStore()
	s.Set("a", "r")
	s.Clear()
	if s.Access() != "" || s.Refresh() != "" {
		t.Fatalf("expected empty tokens after clear, got %q/%q", s.Access(), s.Refresh())
	}
}

func TestZeroValueIsAbsent(t *testing.T) {
	s := NewStore()
	if s.Access() != "" || s.Refresh() != "" {
		t.Fatal("fresh store should hold no tokens")
	}
}

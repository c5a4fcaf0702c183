package core

import "testing"

func TestNewPassIDIsUnique(t *testing.T) {
	a, b := NewPassID(), NewPassID()
	if a == b {
		t.Fatalf("NewPassID() returned %q twice", a)
	}
	if _, err := ParsePassID(a); err != nil {
		t.Errorf("ParsePassID(%q) error: %v", a, err)
	}
}

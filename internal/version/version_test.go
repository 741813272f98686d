package version

import "testing"

func TestStrings(t *testing.T) {
	if got, want := String(), "dev (unknown)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := UserAgent(), "hyperwatch/dev"; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}

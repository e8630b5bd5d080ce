package tracking

import (
	"regexp"
	"testing"
)

var codePattern = regexp.MustCompile(`^TH[0-9]{8}$`)

func TestNewCodeFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := NewCode()
		if !codePattern.MatchString(code) {
			t.Fatalf("code %q does not match %s", code, codePattern)
		}
	}
}

func TestNewCodeVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[NewCode()] = true
	}
	// Collisions are possible but a hundred identical codes are not.
	if len(seen) < 2 {
		t.Fatalf("expected varied codes, got %d distinct", len(seen))
	}
}

package utils

import (
	"regexp"
	"testing"
)

func TestGenerateDisplayName(t *testing.T) {
	shape := regexp.MustCompile(`^[A-Z][a-z]+_[A-Z][a-z]+_\d{4}$`)

	for i := 0; i < 50; i++ {
		name, err := GenerateDisplayName()
		if err != nil {
			t.Fatalf("GenerateDisplayName failed: %v", err)
		}
		if !shape.MatchString(name) {
			t.Errorf("unexpected name shape: %q", name)
		}
		if len(name) > 64 {
			t.Errorf("name %q exceeds the column size", name)
		}
	}
}

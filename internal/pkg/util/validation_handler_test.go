package util

import (
	"strings"
	"testing"
)

type sample struct {
	Name  string `validate:"required,max=4"`
	Count int    `validate:"min=1"`
}

func TestValidateDTO(t *testing.T) {
	if err := ValidateDTO(&sample{Name: "ok", Count: 1}); err != nil {
		t.Fatalf("ValidateDTO() error = %v", err)
	}

	err := ValidateDTO(&sample{Name: "too-long", Count: 0})
	if err == nil {
		t.Fatalf("ValidateDTO() error = nil, want failure")
	}
	for _, want := range []string{"Name(max)", "Count(min)"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q should mention %s", err, want)
		}
	}
}

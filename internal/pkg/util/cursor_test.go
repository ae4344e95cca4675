package util

import "testing"

func TestCursor(t *testing.T) {
	encoded := EncodeCursor(&ActivityCursor{LastID: 42})
	if encoded == "" {
		t.Fatalf("EncodeCursor() returned empty string")
	}
	c, err := DecodeCursor(encoded)
	if err != nil {
		t.Fatalf("DecodeCursor() error = %v", err)
	}
	if c == nil || c.LastID != 42 {
		t.Fatalf("DecodeCursor() = %+v, want LastID 42", c)
	}

	if EncodeCursor(nil) != "" {
		t.Fatalf("EncodeCursor(nil) should be empty")
	}
	if c, err = DecodeCursor(""); err != nil || c != nil {
		t.Fatalf("DecodeCursor(\"\") = %+v, %v", c, err)
	}
	if _, err = DecodeCursor("%%%"); err == nil {
		t.Fatalf("DecodeCursor() accepted garbage")
	}
}

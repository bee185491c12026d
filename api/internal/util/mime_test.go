package util

import "testing"

func TestSniffMime(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "image/png"},
		{"pdf", []byte("%PDF-1.7\n"), "application/pdf"},
		{"unknown", []byte("hello"), "application/octet-stream"},
		{"empty", nil, "application/octet-stream"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SniffMime(c.in); got != c.want {
				t.Fatalf("SniffMime = %q, want %q", got, c.want)
			}
		})
	}
}

func TestIsPDF(t *testing.T) {
	if !IsPDF([]byte("%PDF-1.4")) {
		t.Fatal("pdf not detected")
	}
	if IsPDF([]byte("plain text")) {
		t.Fatal("false positive")
	}
}

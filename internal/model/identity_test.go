package model

import (
	"errors"
	"testing"
)

// TestNormalizePhone tests phone number validation and canonicalization.
func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	t.Run("accepts canonical local format", func(t *testing.T) {
		t.Parallel()

		got, err := NormalizePhone("03001234567")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "03001234567" {
			t.Errorf("expected 03001234567, got %s", got)
		}
	})

	t.Run("canonicalizes international format", func(t *testing.T) {
		t.Parallel()

		got, err := NormalizePhone("+923001234567")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "03001234567" {
			t.Errorf("expected 03001234567, got %s", got)
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		got, err := NormalizePhone("  03001234567 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "03001234567" {
			t.Errorf("expected 03001234567, got %s", got)
		}
	})

	t.Run("rejects invalid numbers", func(t *testing.T) {
		t.Parallel()

		invalid := []string{
			"0300123456",    // too short
			"030012345678",  // too long
			"04001234567",   // wrong prefix
			"0300123456a",   // non-digit
			"+913001234567", // wrong country code
			"3001234567",    // missing leading zero
		}
		for _, phone := range invalid {
			if _, err := NormalizePhone(phone); !errors.Is(err, ErrInvalidPhone) {
				t.Errorf("NormalizePhone(%q): expected ErrInvalidPhone, got %v", phone, err)
			}
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		if _, err := NormalizePhone("   "); !errors.Is(err, ErrEmptyPhone) {
			t.Errorf("expected ErrEmptyPhone, got %v", err)
		}
	})
}

// TestNewIdentity tests Identity construction.
func TestNewIdentity(t *testing.T) {
	t.Parallel()

	t.Run("builds identity with canonical phone", func(t *testing.T) {
		t.Parallel()

		id, err := NewIdentity("Ahmed Khan", "+923001234567")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.Name != "Ahmed Khan" {
			t.Errorf("expected name Ahmed Khan, got %s", id.Name)
		}
		if id.Phone != "03001234567" {
			t.Errorf("expected canonical phone, got %s", id.Phone)
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := NewIdentity("  ", "03001234567"); !errors.Is(err, ErrEmptyName) {
			t.Errorf("expected ErrEmptyName, got %v", err)
		}
	})

	t.Run("rejects invalid phone", func(t *testing.T) {
		t.Parallel()

		if _, err := NewIdentity("Ahmed", "12345"); !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("expected ErrInvalidPhone, got %v", err)
		}
	})
}

// TestMaskPhone tests phone redaction for logs and terminal output.
func TestMaskPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "canonical phone", input: "03001234567", want: "030******67"},
		{name: "short input fully masked", input: "0300", want: "****"},
		{name: "empty input", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MaskPhone(tt.input); got != tt.want {
				t.Errorf("MaskPhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

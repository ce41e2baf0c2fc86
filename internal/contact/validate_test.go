package contact

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		contact *Contact
		wantErr bool
	}{
		{"valid", contactWith("email", "ada@example.com", "url", "https://example.com"), false},
		{"free text untouched", contactWith("name", "!!!", "tel", "ask reception"), false},
		{"bad email", contactWith("email", "not-an-email"), true},
		{"bad url", contactWith("url", "example"), true},
		{"nil", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.contact)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Fatalf("expected ErrInvalidValue, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

package textutil

import (
	"reflect"
	"testing"
)

func TestCollapseSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"  john   doe ", "john doe"},
		{"line\tone\nline two", "line one line two"},
	}
	for _, tt := range tests {
		if got := CollapseSpace(tt.in); got != tt.want {
			t.Errorf("CollapseSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldKeyIgnoresCaseAndSpacing(t *testing.T) {
	a := FoldKey("  John   DOE ")
	b := FoldKey("john doe")
	if a != b {
		t.Fatalf("expected equal keys, got %q and %q", a, b)
	}
	if FoldKey("Straße") != FoldKey("STRASSE") {
		t.Fatalf("expected case folding to handle sharp s")
	}
	if FoldKey("") != "" {
		t.Fatalf("expected empty key for empty value")
	}
}

func TestPhoneKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "911", "911"},
		{"formatted", "+1 (555) 010-2030", "+15550102030"},
		{"inner plus dropped", "555+123", "555123"},
		{"no digits", "Ask Reception", "ask reception"},
		{"lone plus", "+", "+"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhoneKey(tt.in); got != tt.want {
				t.Errorf("PhoneKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Jean-Luc  O'Neil, Jr.", 2)
	want := []string{"jean", "luc", "neil", "jr"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	if toks := Tokenize("   ", 1); toks != nil {
		t.Fatalf("expected nil tokens for blank input, got %v", toks)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John Smith", "John Smith"},
		{"AC/DC: Fan?", "AC-DC- Fan"},
		{"  tabs\tand\nnewlines  ", "tabsandnewlines"},
		{"..hidden", "hidden"},
		{"<>|", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

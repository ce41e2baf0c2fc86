package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// VCard renders a minimal vCard 3.0 card from property lines such as
// "FN:John Smith" or "TEL;TYPE=cell:911".
func VCard(lines ...string) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\nVERSION:3.0\r\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	b.WriteString("END:VCARD\r\n")
	return b.String()
}

// WriteVCard writes one or more cards into dir/name and returns the path.
func WriteVCard(t testing.TB, dir, name string, cards ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	WriteFile(t, path, strings.Join(cards, ""))
	return path
}

package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeWriteFileCreatesParent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "charts", "2024", "mix.png")
	if err := SafeWriteFile(p, []byte("data")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "data" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"year": 2022})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "\n  \"year\": 2022") {
		t.Fatalf("got %s", b)
	}
	if _, err := PrettyJSON(func() {}); err == nil {
		t.Fatal("expected marshal error")
	}
}

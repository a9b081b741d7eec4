package normalization

import (
	"strings"
	"testing"
)

type mode string

const (
	modeStatic mode = "static"
	modeServer mode = "server"
)

func newModeNormalizer() *Normalizer[mode] {
	return NewNormalizer("output mode", map[string]mode{
		"static": modeStatic,
		"server": modeServer,
		"ssr":    modeServer,
	}, modeStatic)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newModeNormalizer()

	tests := []struct {
		name     string
		input    string
		expected mode
	}{
		{"exact match", "server", modeServer},
		{"case insensitive", "SERVER", modeServer},
		{"with spaces", "  static  ", modeStatic},
		{"alias", "SSR", modeServer},
		{"invalid input", "lambda", modeStatic},
		{"empty input", "", modeStatic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_Parse(t *testing.T) {
	n := newModeNormalizer()

	got, err := n.Parse("Server")
	if err != nil {
		t.Fatalf("Parse(valid) returned error: %v", err)
	}
	if got != modeServer {
		t.Errorf("Parse(valid) = %v, want %v", got, modeServer)
	}

	got, err = n.Parse("")
	if err != nil || got != modeStatic {
		t.Errorf("Parse(empty) = %v, %v; want default without error", got, err)
	}

	_, err = n.Parse("lambda")
	if err == nil {
		t.Fatal("Parse(invalid) should return error")
	}
	if !strings.Contains(err.Error(), "output mode") {
		t.Errorf("error should name the enum, got %q", err.Error())
	}
}

func TestNormalizer_ValidKeysSorted(t *testing.T) {
	keys := newModeNormalizer().ValidKeys()
	expected := []string{"server", "ssr", "static"}

	if len(keys) != len(expected) {
		t.Fatalf("ValidKeys() length = %d, want %d", len(keys), len(expected))
	}
	for i, key := range keys {
		if key != expected[i] {
			t.Errorf("ValidKeys()[%d] = %q, want %q", i, key, expected[i])
		}
	}
}

func TestNormalizer_IsValid(t *testing.T) {
	n := newModeNormalizer()
	if !n.IsValid(modeServer) {
		t.Error("expected server to be valid")
	}
	if n.IsValid(mode("edge")) {
		t.Error("expected edge to be invalid")
	}
}

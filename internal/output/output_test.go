package output

import (
	"strings"
	"testing"
)

type stringerValue struct{}

func (stringerValue) String() string { return "rendered" }

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestWriteText(t *testing.T) {
	var b strings.Builder
	if err := NewWriter(&b, FormatText).Write(stringerValue{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if b.String() != "rendered\n" {
		t.Errorf("text output = %q", b.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var b strings.Builder
	v := map[string]string{"version": "0.1.0"}
	if err := NewWriter(&b, FormatJSON).Write(v); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(b.String(), `"version": "0.1.0"`) {
		t.Errorf("json output = %q", b.String())
	}
}

func TestWriteYAML(t *testing.T) {
	var b strings.Builder
	v := map[string]string{"version": "0.1.0"}
	if err := NewWriter(&b, FormatYAML).Write(v); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(b.String(), "version: 0.1.0") {
		t.Errorf("yaml output = %q", b.String())
	}
}

package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "tally.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		if i == 4 {
			content.WriteString("   \n")
		}
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "zero", maxLines: 0, expected: nil},
		{name: "negative", maxLines: -1, expected: nil},
		{name: "partial", maxLines: 5, expected: expectedAll[5:]},
		{name: "exactly all", maxLines: 10, expected: expectedAll},
		{name: "more than exists", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.Raw)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("Read() = %v, want empty", entries)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"warn","ts":"2026-03-01T10:20:30.000Z","caller":"state/refresh.go:103","msg":"transactions fetch failed","wallet":"W1","error":"boom"}`

	e := Parse(line)
	if e.Level != "warn" {
		t.Fatalf("Level = %q, want warn", e.Level)
	}
	if e.Message != "transactions fetch failed" {
		t.Fatalf("Message = %q", e.Message)
	}
	if e.Time.IsZero() || e.Time.UTC().Hour() != 10 {
		t.Fatalf("Time = %v, want 10:20:30 UTC", e.Time)
	}
	if _, ok := e.Fields["caller"]; ok {
		t.Fatal("caller kept in fields")
	}
	if e.Fields["wallet"] != "W1" || e.Fields["error"] != "boom" {
		t.Fatalf("Fields = %v", e.Fields)
	}
}

func TestParse_PlainText(t *testing.T) {
	e := Parse("not json at all")
	if e.Level != "" || e.Message != "not json at all" {
		t.Fatalf("Parse = %+v", e)
	}
	if got := e.Format(); got != "not json at all" {
		t.Fatalf("Format = %q", got)
	}
}

func TestFormat_SortsFields(t *testing.T) {
	e := Entry{Level: "info", Message: "tracking campaign", Fields: map[string]string{"session": "2", "address": "A"}}

	got := e.Format()
	want := "INFO  tracking campaign address=A session=2"
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

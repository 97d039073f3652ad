package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testMapYAML = `
name: pll
base_addr: 0x1000
word_bytes: 4
registers:
  - name: ctrl
    addr: 0x0
    write_mask: 0xff
    desc: control register
    fields:
      - {name: div, bits: "7:4", access: RW, reset: 0x2}
      - {name: en, bits: "0", access: RW}
  - name: status
    addr: 0x4
    fields:
      - {name: locked, bits: "0", access: RO}
`

const testMapListing = `# exported register listing
regfile pll @ 0x1000 word 4

reg ctrl @ 0x0 wmask 0xff -- control register
field div 7:4 RW reset 0x2
field en 0 RW

reg status @ 0x4
field locked 0 RO
`

// resetFlags restores the global output flags between table cases
func resetFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	noColor = false
}

// writeMapFile writes a map fixture into a temp dir and returns its path
func writeMapFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write map fixture: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}

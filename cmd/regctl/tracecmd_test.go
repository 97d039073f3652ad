package main

import (
	"path/filepath"
	"testing"
)

func TestTraceCommand(t *testing.T) {
	resetFlags()

	mapPath := writeMapFile(t, "pll.yaml", testMapYAML)
	tracePath := filepath.Join(t.TempDir(), "access.trace")

	// Record one write transaction.
	flags := deviceFlags{kind: "simple", traceOut: tracePath}
	if _, err := captureOutput(t, func() error {
		return runSet(mapPath, "ctrl", []string{"div=3", "en=1"}, &flags)
	}); err != nil {
		t.Fatalf("runSet() error = %v", err)
	}

	output, err := captureOutput(t, func() error {
		return runTrace(tracePath, 0)
	})
	if err != nil {
		t.Fatalf("runTrace() error = %v", err)
	}
	assertContains(t, output, []string{"#1 write 0x1000 <- 0x31 mask 0xff wmask 0xff"})

	resetFlags()
	jsonOut = true
	output, err = captureOutput(t, func() error {
		return runTrace(tracePath, 0)
	})
	if err != nil {
		t.Fatalf("runTrace() --json error = %v", err)
	}
	assertJSON(t, output)
	assertContains(t, output, []string{`"op": "write"`, `"seq": 1`, `"addr": 4096`})
}

func TestTraceCommandTail(t *testing.T) {
	resetFlags()

	mapPath := writeMapFile(t, "pll.yaml", testMapYAML)
	tracePath := filepath.Join(t.TempDir(), "access.trace")

	// A dump reads both registers, giving two events.
	flags := deviceFlags{kind: "simple", traceOut: tracePath}
	if _, err := captureOutput(t, func() error {
		return runDump(mapPath, &flags)
	}); err != nil {
		t.Fatalf("runDump() error = %v", err)
	}

	output, err := captureOutput(t, func() error {
		return runTrace(tracePath, 1)
	})
	if err != nil {
		t.Fatalf("runTrace() error = %v", err)
	}
	assertContains(t, output, []string{"#2 read 0x1004"})
	assertNotContains(t, output, []string{"#1"})
}

func TestTraceCommandMissingFile(t *testing.T) {
	resetFlags()
	if _, err := captureOutput(t, func() error {
		return runTrace(filepath.Join(t.TempDir(), "nope.trace"), 0)
	}); err == nil {
		t.Fatal("expected an error for a missing trace file")
	}
}

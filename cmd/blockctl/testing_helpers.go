package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/joshuapare/blockkit/alloc"
	"github.com/joshuapare/blockkit/pool"
)

// scenarioImage writes a 16-slot image whose free list is
// 8→9→3→4→5→12→13→14→11→1 and returns its path.
func scenarioImage(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pool.blk")
	p, err := pool.Create(path, 16)
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	a, err := alloc.New(p, nil, nil)
	if err != nil {
		t.Fatalf("new allocator: %v", err)
	}
	if _, err := a.AllocateSpan(8); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	for _, r := range []alloc.Span{{Start: 1, Blocks: 1}, {Start: 11, Blocks: 1}, {Start: 12, Blocks: 3}, {Start: 3, Blocks: 3}, {Start: 8, Blocks: 2}} {
		if err := a.Free(r.Start, r.Bytes()); err != nil {
			t.Fatalf("free %v: %v", r, err)
		}
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close image: %v", err)
	}
	return path
}

// inspectImage reads the allocator state of the image at path.
func inspectImage(t *testing.T, path string) alloc.Snapshot {
	t.Helper()
	p, err := pool.OpenReadOnly(path)
	if err != nil {
		t.Fatalf("open image: %v", err)
	}
	defer p.Close()
	return alloc.Inspect(p)
}

// resetFlags restores every global flag to its default.
func resetFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	initCapacity = defaultCapacity
	initForce = false
	allocPack = false
	infoReadOnly = true
	infoMaxChain = 0
	infoRuns = false
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
	var result any
	if err := jsoniter.Unmarshal([]byte(output), &result); err != nil {
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

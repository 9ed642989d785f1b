// Package testutil provides shared test infrastructure for the signal engine.
// It holds the golden dataset types and loaders used by scenario tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one scenario file and the outcome of running it.
type GoldenTestCase struct {
	Name     string        `json:"name"`
	Scenario string        `json:"scenario"` // relative to testdata/
	Outcome  GoldenOutcome `json:"outcome"`
}

// GoldenOutcome is the expected final state after the scenario's last
// Run call.
type GoldenOutcome struct {
	// Global indices whose Signal is on, ascending.
	On []int `json:"on"`
	// Global indices flagged as sources, ascending.
	Sources     []int    `json:"sources"`
	ConsumedATP []string `json:"consumed_atp"`
	Iterations  int      `json:"iterations"`
	Converged   bool     `json:"converged"`
}

// testdataDir resolves the repo-root testdata/ directory relative to this
// source file: sim/internal/testutil/ → testdata/.
func testdataDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata")
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	path := filepath.Join(testdataDir(t), "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("golden dataset has no test cases")
	}
	return &dataset
}

// ScenarioPath returns the absolute path of a golden case's scenario file.
func ScenarioPath(t *testing.T, tc GoldenTestCase) string {
	t.Helper()
	return filepath.Join(testdataDir(t), tc.Scenario)
}

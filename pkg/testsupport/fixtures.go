package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-category-cache/category"
)

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
// The path is relative to the test package directory.
func LoadFixtureJSON(t testing.TB, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// LoadWireRecords loads a JSON array of upstream category records.
func LoadWireRecords(t testing.TB, path string) []category.WireRecord {
	t.Helper()

	var records []category.WireRecord
	LoadFixtureJSON(t, path, &records)
	return records
}

// LoadRecords loads upstream records and normalizes them, failing the test
// if any record is malformed.
func LoadRecords(t testing.TB, path string) []category.Record {
	t.Helper()

	records, skipped := category.NormalizeAll(LoadWireRecords(t, path))
	if skipped > 0 {
		t.Fatalf("fixture %s has %d records without id", path, skipped)
	}
	return records
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

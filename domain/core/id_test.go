package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

func TestTypedIDsAreNotEmpty(t *testing.T) {
	if NewSessionID().IsEmpty() {
		t.Error("NewSessionID returned an empty ID")
	}
	if NewAnalysisID().IsEmpty() {
		t.Error("NewAnalysisID returned an empty ID")
	}
	if !AnalysisID("").IsEmpty() {
		t.Error("Zero AnalysisID should be empty")
	}
}

func TestFingerprinterSeparatesCells(t *testing.T) {
	a := NewFingerprinter()
	a.Add("ab")
	a.Add("c")

	b := NewFingerprinter()
	b.Add("a")
	b.Add("bc")

	if a.Sum() == b.Sum() {
		t.Error("Expected different fingerprints for different cell boundaries")
	}

	c := NewFingerprinter()
	c.Add("ab")
	c.Add("c")
	if a.Sum() != c.Sum() {
		t.Error("Expected identical fingerprints for identical cells")
	}
	if len(a.Sum().Short()) != 12 {
		t.Errorf("Expected 12-character short hash, got %q", a.Sum().Short())
	}
}

func TestInferenceErrorTaxonomy(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
	}{
		{NewTooManyCategoriesError("job", 12, 8), ErrTooManyCategories},
		{NewGroupSizeError("a", 0, 1), ErrInsufficientGroupSize},
		{NewDegenerateTableError("zero column"), ErrDegenerateContingencyTable},
		{NewNoUsableDataError("empty"), ErrNoUsableData},
		{NewColumnNotFoundError("missing"), ErrNoUsableData},
	}

	for _, tt := range tests {
		if !errors.Is(tt.err, tt.sentinel) {
			t.Errorf("%v does not wrap %v", tt.err, tt.sentinel)
		}
	}
}

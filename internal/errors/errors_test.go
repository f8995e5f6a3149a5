package errors

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestIndexNotFoundError(t *testing.T) {
	indexName := "test-index"
	err := NewIndexNotFoundError(indexName)

	// Test error message
	expectedMsg := "index named 'test-index' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	// Test Is() method
	if !errors.Is(err, ErrIndexNotFound) {
		t.Error("Expected error to match ErrIndexNotFound sentinel")
	}

	// Test that it doesn't match other sentinels
	if errors.Is(err, ErrFieldNotFound) {
		t.Error("Error should not match ErrFieldNotFound")
	}
}

func TestIndexAlreadyExistsError(t *testing.T) {
	err := NewIndexAlreadyExistsError("existing-index")

	expectedMsg := "index named 'existing-index' already exists"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
	if !errors.Is(err, ErrIndexAlreadyExists) {
		t.Error("Expected error to match ErrIndexAlreadyExists sentinel")
	}
}

func TestFieldNotFoundError(t *testing.T) {
	err := NewFieldNotFoundError("title", "dictionary")
	if err.Error() != "dictionary for field 'title' not found" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	bare := NewFieldNotFoundError("title", "")
	if bare.Error() != "field 'title' not found" {
		t.Errorf("unexpected message: %s", bare.Error())
	}

	wrapped := fmt.Errorf("field search: %w", err)
	if !errors.Is(wrapped, ErrFieldNotFound) {
		t.Error("Expected wrapped error to match ErrFieldNotFound")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("search.terms", "at least one term is required")
	expectedMsg := "validation error for field 'search.terms': at least one term is required"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected error to match ErrInvalidInput sentinel")
	}

	noField := NewValidationError("", "empty request")
	if noField.Error() != "validation error: empty request" {
		t.Errorf("unexpected message: %s", noField.Error())
	}
}

func TestAutomatonTooLargeError(t *testing.T) {
	cause := errors.New("too many states")
	err := NewAutomatonTooLargeError("pathological", 5, cause)

	if !errors.Is(err, ErrAutomatonTooLarge) {
		t.Error("Expected error to match ErrAutomatonTooLarge sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to its cause")
	}
	if NewAutomatonTooLargeError("x", 9, nil).Error() != "cannot build automaton for term 'x' with distance 9" {
		t.Error("unexpected message without cause")
	}
}

func TestNonFiniteScoreError(t *testing.T) {
	err := NewNonFiniteScoreError(7, float32(math.Inf(1)), "boost")
	if !errors.Is(err, ErrNonFiniteScore) {
		t.Error("Expected error to match ErrNonFiniteScore sentinel")
	}
	if IsUserError(err) {
		t.Error("non-finite scores are internal defects, not user errors")
	}
}

func TestIsUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"index not found", NewIndexNotFoundError("a"), true},
		{"field not found", NewFieldNotFoundError("a", "dictionary"), true},
		{"validation", NewValidationError("a", "b"), true},
		{"automaton", NewAutomatonTooLargeError("a", 4, nil), true},
		{"storage failure", errors.New("read failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserError(tt.err); got != tt.want {
				t.Errorf("IsUserError() = %v, want %v", got, tt.want)
			}
		})
	}
}

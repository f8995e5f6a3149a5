package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrIndexNotFound is returned when an index is not found
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndexAlreadyExists is returned when trying to create an index that already exists
	ErrIndexAlreadyExists = errors.New("index already exists")

	// ErrFieldNotFound is returned when a field, join level or boost store is absent from an index
	ErrFieldNotFound = errors.New("field not found")

	// ErrInvalidInput is returned when request validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrAutomatonTooLarge is returned when a Levenshtein automaton cannot be built within limits
	ErrAutomatonTooLarge = errors.New("levenshtein automaton too large")

	// ErrNonFiniteScore signals a ranking defect: a score became NaN or infinite
	ErrNonFiniteScore = errors.New("non-finite score")
)

// IndexNotFoundError represents an index not found error with context
type IndexNotFoundError struct {
	IndexName string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index named '%s' not found", e.IndexName)
}

func (e *IndexNotFoundError) Is(target error) bool {
	return target == ErrIndexNotFound
}

// NewIndexNotFoundError creates a new IndexNotFoundError
func NewIndexNotFoundError(indexName string) *IndexNotFoundError {
	return &IndexNotFoundError{IndexName: indexName}
}

// IndexAlreadyExistsError represents an index already exists error with context
type IndexAlreadyExistsError struct {
	IndexName string
}

func (e *IndexAlreadyExistsError) Error() string {
	return fmt.Sprintf("index named '%s' already exists", e.IndexName)
}

func (e *IndexAlreadyExistsError) Is(target error) bool {
	return target == ErrIndexAlreadyExists
}

// NewIndexAlreadyExistsError creates a new IndexAlreadyExistsError
func NewIndexAlreadyExistsError(indexName string) *IndexAlreadyExistsError {
	return &IndexAlreadyExistsError{IndexName: indexName}
}

// FieldNotFoundError reports a missing physical structure for a field path.
// What names the structure kind ("dictionary", "join level", "boost values", "field").
type FieldNotFoundError struct {
	Path string
	What string
}

func (e *FieldNotFoundError) Error() string {
	if e.What != "" {
		return fmt.Sprintf("%s for field '%s' not found", e.What, e.Path)
	}
	return fmt.Sprintf("field '%s' not found", e.Path)
}

func (e *FieldNotFoundError) Is(target error) bool {
	return target == ErrFieldNotFound
}

// NewFieldNotFoundError creates a new FieldNotFoundError
func NewFieldNotFoundError(path, what string) *FieldNotFoundError {
	return &FieldNotFoundError{Path: path, What: what}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AutomatonTooLargeError reports a term/distance combination the automaton builder refuses.
type AutomatonTooLargeError struct {
	Term     string
	Distance uint8
	Cause    error
}

func (e *AutomatonTooLargeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot build automaton for term '%s' with distance %d: %v", e.Term, e.Distance, e.Cause)
	}
	return fmt.Sprintf("cannot build automaton for term '%s' with distance %d", e.Term, e.Distance)
}

func (e *AutomatonTooLargeError) Is(target error) bool {
	return target == ErrAutomatonTooLarge
}

func (e *AutomatonTooLargeError) Unwrap() error {
	return e.Cause
}

// NewAutomatonTooLargeError creates a new AutomatonTooLargeError
func NewAutomatonTooLargeError(term string, distance uint8, cause error) *AutomatonTooLargeError {
	return &AutomatonTooLargeError{Term: term, Distance: distance, Cause: cause}
}

// NonFiniteScoreError is raised when a hit's score turns NaN or infinite at some stage.
type NonFiniteScoreError struct {
	ID    uint32
	Score float32
	Stage string
}

func (e *NonFiniteScoreError) Error() string {
	return fmt.Sprintf("score of hit %d became %v during %s", e.ID, e.Score, e.Stage)
}

func (e *NonFiniteScoreError) Is(target error) bool {
	return target == ErrNonFiniteScore
}

// NewNonFiniteScoreError creates a new NonFiniteScoreError
func NewNonFiniteScoreError(id uint32, score float32, stage string) *NonFiniteScoreError {
	return &NonFiniteScoreError{ID: id, Score: score, Stage: stage}
}

// IsUserError reports whether err belongs to a user-correctable class.
func IsUserError(err error) bool {
	return errors.Is(err, ErrIndexNotFound) ||
		errors.Is(err, ErrFieldNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrAutomatonTooLarge)
}

package content

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingInitialNode is returned when a scenario's entry node does not exist.
	ErrMissingInitialNode = errors.New("initial node not found")
	// ErrEmptyTopic is returned when a topic has no levels to play.
	ErrEmptyTopic = errors.New("topic has no levels")
	// ErrUnknownLevelType is returned for a level discriminant outside the known set.
	ErrUnknownLevelType = errors.New("unknown level type")
)

// ValidationError collects every structural problem found in a piece of content.
type ValidationError struct {
	Subject  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s:\n  %s", e.Subject, strings.Join(e.Problems, "\n  "))
}

package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// RunID identifies one generation run in manifests and the catalog.
type RunID ID

func NewRunID() RunID { return RunID(NewID()) }

func (id RunID) String() string { return ID(id).String() }

// ExecutionIDLayout is the timestamp layout shared by every artifact of a run.
const ExecutionIDLayout = "20060102150405"

// ExecutionID is the timestamp-derived token embedded in artifact names.
type ExecutionID string

// NewExecutionID formats t with ExecutionIDLayout. When a process performs
// several runs, seq (1-based) disambiguates runs started in the same second;
// seq <= 0 means a single run and adds no suffix.
func NewExecutionID(t time.Time, seq int) ExecutionID {
	base := t.Format(ExecutionIDLayout)
	if seq <= 0 {
		return ExecutionID(base)
	}
	return ExecutionID(fmt.Sprintf("%s-%02d", base, seq))
}

func (id ExecutionID) String() string { return string(id) }

// ParseExecutionID parses a string into ExecutionID
func ParseExecutionID(s string) (ExecutionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("execution ID cannot be empty")
	}
	base, _, _ := strings.Cut(s, "-")
	if _, err := time.Parse(ExecutionIDLayout, base); err != nil {
		return "", fmt.Errorf("execution ID %q is not a %s timestamp: %w", s, ExecutionIDLayout, err)
	}
	return ExecutionID(s), nil
}

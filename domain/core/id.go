package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
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

// Domain-specific ID types
type (
	SessionID  ID
	AnalysisID ID
)

func NewSessionID() SessionID   { return SessionID(NewID()) }
func NewAnalysisID() AnalysisID { return AnalysisID(NewID()) }

func (id SessionID) String() string  { return ID(id).String() }
func (id AnalysisID) String() string { return ID(id).String() }

func (id SessionID) IsEmpty() bool  { return ID(id).IsEmpty() }
func (id AnalysisID) IsEmpty() bool { return ID(id).IsEmpty() }

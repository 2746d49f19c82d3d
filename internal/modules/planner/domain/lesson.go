package domain

import (
	"fmt"
	"time"
)

// State is the position of one class in the lesson planning flow.
type State int

const (
	ListingClasses State = iota
	ClassOpened
	EditMode
	LessonPending
	LessonsExhausted
	Saved
	Returned
)

func (s State) String() string {
	switch s {
	case ListingClasses:
		return "listing"
	case ClassOpened:
		return "opened"
	case EditMode:
		return "edit"
	case LessonPending:
		return "pending"
	case LessonsExhausted:
		return "exhausted"
	case Saved:
		return "saved"
	case Returned:
		return "returned"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func ParseState(s string) State {
	for st := ListingClasses; st <= Returned; st++ {
		if st.String() == s {
			return st
		}
	}
	return ListingClasses
}

type Choice string

const (
	ChoicePlan    Choice = "1"
	ChoiceExecute Choice = "2"
)

type ClassRow struct {
	Index int
	Label string
}

// ClassResult is the outcome of processing one class, kept in the run journal.
type ClassResult struct {
	RunID        string
	Index        int
	Label        string
	State        State
	LessonsSaved int
	OK           bool
	Note         string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// ReturnedCleanly reports whether the class listing was reached again,
// independently of whether every lesson was planned.
func (r ClassResult) ReturnedCleanly() bool {
	return r.State == Returned
}

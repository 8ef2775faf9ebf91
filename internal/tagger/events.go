package tagger

import "github.com/gravitrone/polytag/internal/tag"

// Event is a user action reported by the host control.
type Event interface {
	event()
}

// Added reports a chip added by the user. ID is set when an existing
// candidate was selected and empty for free text.
type Added struct {
	Name string
	ID   string
}

// Removed reports a chip removed by the user.
type Removed struct {
	ID string
}

// Updated reports an in-place edit of a chip.
type Updated struct {
	ID   string
	Name string
}

// InputChanged reports a keystroke in the search box.
type InputChanged struct {
	Text string
}

func (Added) event()        {}
func (Removed) event()      {}
func (Updated) event()      {}
func (InputChanged) event() {}

// Outcome is the result of handling one event. Only the field matching the
// event kind is set.
type Outcome struct {
	Candidates []tag.Tag
	Tag        *tag.Tag
	Removed    bool
}

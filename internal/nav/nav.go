package nav

import (
	"fmt"

	"github.com/anay/litquest/internal/course"
)

// Place names where the learner currently is inside a course.
type Place string

const (
	// PlaceClosed means no chapter is open; the learner looks at the
	// course map.
	PlaceClosed Place = "closed"
	// PlaceHub means a chapter hub is open.
	PlaceHub Place = "hub"
	// PlaceActivity means an activity is running inside the open hub.
	PlaceActivity Place = "activity"
)

// ErrInvalidTransition reports a navigation call that is not legal
// from the current place.
type ErrInvalidTransition struct {
	From Place
	Op   string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s from %s", e.Op, e.From)
}

// Navigator tracks the learner's position inside one course: which
// chapter hub is open, which activity runs inside it, and whether the
// study guide overlay is showing. The overlay is orthogonal to the
// hub/activity position and survives every transition.
//
// Navigator is not safe for concurrent use; the orchestrator
// serializes access to it.
type Navigator struct {
	place     Place
	chapterID int
	activity  course.ActivityKind

	studyGuideOpen bool
}

// New returns a Navigator at the course map with nothing open.
func New() *Navigator {
	return &Navigator{place: PlaceClosed}
}

// Place reports where the learner currently is.
func (n *Navigator) Place() Place { return n.place }

// ChapterID returns the open chapter's id, or 0 when no hub is open.
func (n *Navigator) ChapterID() int { return n.chapterID }

// Activity returns the running activity kind. Only meaningful when
// Place() is PlaceActivity.
func (n *Navigator) Activity() course.ActivityKind { return n.activity }

// StudyGuideOpen reports whether the study guide overlay is showing.
func (n *Navigator) StudyGuideOpen() bool { return n.studyGuideOpen }

// OpenHub enters the hub of the given chapter. Legal only from the
// course map; an open hub must be closed before another opens.
func (n *Navigator) OpenHub(chapterID int) error {
	if n.place != PlaceClosed {
		return &ErrInvalidTransition{From: n.place, Op: "open hub"}
	}
	n.place = PlaceHub
	n.chapterID = chapterID
	return nil
}

// LaunchActivity starts an activity inside the open hub.
func (n *Navigator) LaunchActivity(kind course.ActivityKind) error {
	if n.place != PlaceHub {
		return &ErrInvalidTransition{From: n.place, Op: "launch activity"}
	}
	n.place = PlaceActivity
	n.activity = kind
	return nil
}

// BackToHub leaves the running activity and returns to its hub.
func (n *Navigator) BackToHub() error {
	if n.place != PlaceActivity {
		return &ErrInvalidTransition{From: n.place, Op: "return to hub"}
	}
	n.place = PlaceHub
	n.activity = ""
	return nil
}

// CloseHub leaves the open hub and returns to the course map. Legal
// only from the hub itself; a running activity must finish or be
// abandoned via BackToHub first.
func (n *Navigator) CloseHub() error {
	if n.place != PlaceHub {
		return &ErrInvalidTransition{From: n.place, Op: "close hub"}
	}
	n.place = PlaceClosed
	n.chapterID = 0
	return nil
}

// ToggleStudyGuide flips the study guide overlay. Legal from any
// place, and never disturbs the hub/activity position.
func (n *Navigator) ToggleStudyGuide() {
	n.studyGuideOpen = !n.studyGuideOpen
}

// Reset returns the navigator to the course map with the overlay
// closed, for course exit.
func (n *Navigator) Reset() {
	n.place = PlaceClosed
	n.chapterID = 0
	n.activity = ""
	n.studyGuideOpen = false
}

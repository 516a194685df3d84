package domain

import (
	"errors"
	"time"
)

// GrievanceStatus represents the lifecycle state of a grievance. The literal
// string values are part of the wire contract with the store and must keep
// their exact casing.
type GrievanceStatus string

const (
	StatusPending    GrievanceStatus = "Pending"
	StatusInProgress GrievanceStatus = "InProgress"
	StatusResolved   GrievanceStatus = "Resolved"
	StatusRejected   GrievanceStatus = "Rejected"
)

// validTransitions defines the allowed state machine transitions.
// Resolved and Rejected are terminal: no entry, no way out.
var validTransitions = map[GrievanceStatus][]GrievanceStatus{
	StatusPending:    {StatusInProgress, StatusRejected},
	StatusInProgress: {StatusResolved},
}

var ErrValidation = errors.New("validation failed")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrGrievanceNotFound = errors.New("grievance not found")
var ErrStorage = errors.New("storage operation failed")
var ErrUpstream = errors.New("upstream service unavailable")

// CanTransitionTo reports whether a transition from the current status to
// next is valid.
func (s GrievanceStatus) CanTransitionTo(next GrievanceStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is one of the four defined statuses.
func (s GrievanceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// IsActive reports whether the grievance still needs administrator action.
// Resolved and Rejected grievances are past.
func (s GrievanceStatus) IsActive() bool {
	return s == StatusPending || s == StatusInProgress
}

// StatusPresentation is the dashboard projection of a status: a human label
// and a color tag. Kept as a lookup table keyed by the enum so it stays in
// lock-step with the transition table above.
type StatusPresentation struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusPresentations = map[GrievanceStatus]StatusPresentation{
	StatusPending:    {Label: "Pending", Color: "yellow"},
	StatusInProgress: {Label: "In Progress", Color: "blue"},
	StatusResolved:   {Label: "Resolved", Color: "green"},
	StatusRejected:   {Label: "Rejected", Color: "red"},
}

// Presentation returns the dashboard label and color for s.
func (s GrievanceStatus) Presentation() StatusPresentation {
	return statusPresentations[s]
}

// Grievance is the core aggregate root. Title, Description, UserID and
// FileURLs are immutable after creation; only Status, LastUpdated and
// Version change, and only through a lifecycle transition.
type Grievance struct {
	ID          string          `json:"id" bson:"_id,omitempty"`
	UserID      string          `json:"user_id" bson:"user_id"`
	Title       string          `json:"title" bson:"title"`
	Description string          `json:"description" bson:"description"`
	Status      GrievanceStatus `json:"status" bson:"status"`
	FileURLs    []string        `json:"file_urls" bson:"file_urls"`
	SubmittedAt time.Time       `json:"submitted_at" bson:"submitted_at"`
	LastUpdated time.Time       `json:"last_updated" bson:"last_updated"`
	Version     int64           `json:"version" bson:"version"`
}

// Partition splits a grievance set into active (Pending, InProgress) and
// past (Resolved, Rejected). Pure function of the input; recomputed on every
// read, never stored.
func Partition(grievances []*Grievance) (active, past []*Grievance) {
	for _, g := range grievances {
		if g.Status.IsActive() {
			active = append(active, g)
		} else {
			past = append(past, g)
		}
	}
	return active, past
}

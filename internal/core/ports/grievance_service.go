package ports

import (
	"context"
	"time"

	"github.com/trinetra110/civix/internal/core/domain"
)

// AttachmentInput is a single file payload submitted with a grievance.
type AttachmentInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SubmitGrievanceInput carries all data needed to file a new grievance.
// OwnerID is taken from the authenticated session, never from the payload.
type SubmitGrievanceInput struct {
	OwnerID     string
	Title       string
	Description string
	Attachments []AttachmentInput
}

// GrievanceView is the full grievance representation returned to callers,
// including the dashboard presentation of its status.
type GrievanceView struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	Status       string
	Presentation domain.StatusPresentation
	FileURLs     []string
	SubmittedAt  time.Time
	LastUpdated  time.Time
	Version      int64
}

// ListGrievancesInput identifies the caller; the service derives the scope
// (owned vs. all) from the caller's directory role, not from the request.
type ListGrievancesInput struct {
	CallerID string
}

// ListGrievancesResult partitions the visible set into active and past.
// The partition is recomputed on every read.
type ListGrievancesResult struct {
	Active []GrievanceView
	Past   []GrievanceView
}

// GetGrievanceInput carries the parameters to fetch a single grievance.
type GetGrievanceInput struct {
	GrievanceID string
	CallerID    string
}

// TransitionInput requests a status change. The caller's role is re-derived
// from the role directory inside the service; the transport-layer role gate
// is advisory only.
type TransitionInput struct {
	GrievanceID string
	Requested   string
	CallerID    string
}

// FormatInput carries the free text to be rendered as a formal complaint.
type FormatInput struct {
	Title       string
	Description string
}

// FormatResult is always a proposal; the original description is only
// replaced if the caller resubmits with the formatted text.
type FormatResult struct {
	Formatted string
	// Fallback is true when the formatter was unavailable and the fixed
	// local template was substituted.
	Fallback bool
}

// GrievanceService defines the grievance lifecycle use cases.
type GrievanceService interface {
	Submit(ctx context.Context, input SubmitGrievanceInput) (*GrievanceView, error)
	List(ctx context.Context, input ListGrievancesInput) (*ListGrievancesResult, error)
	Get(ctx context.Context, input GetGrievanceInput) (*GrievanceView, error)
	Transition(ctx context.Context, input TransitionInput) (*GrievanceView, error)
	FormatPreview(ctx context.Context, input FormatInput) (*FormatResult, error)
}

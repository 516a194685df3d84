package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

// The submission itself arrives as multipart form data (title, description,
// files); only the JSON bodies get bind schemas.

type transitionRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending InProgress Resolved Rejected"`
}

type formatRequest struct {
	Title       string `json:"title"`
	Description string `json:"description" validate:"required"`
}

// --- Response types ---
// Response-only types owned by the transport layer, deliberately separate
// from ports/domain types so the JSON contract is not coupled to internal
// service changes.

type statusPresentationResponse struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

type grievanceResponse struct {
	ID           string                     `json:"id"`
	UserID       string                     `json:"user_id"`
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	Status       string                     `json:"status"`
	Presentation statusPresentationResponse `json:"presentation"`
	FileURLs     []string                   `json:"file_urls"`
	SubmittedAt  time.Time                  `json:"submitted_at"`
	LastUpdated  time.Time                  `json:"last_updated"`
	Version      int64                      `json:"version"`
}

// listGrievancesResponse partitions the visible set the way the dashboards
// render it: records still needing action, then closed ones.
type listGrievancesResponse struct {
	Active []grievanceResponse `json:"active"`
	Past   []grievanceResponse `json:"past"`
}

type formatResponse struct {
	Formatted string `json:"formatted"`
	Fallback  bool   `json:"fallback"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

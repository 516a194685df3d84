package handler

import (
	"github.com/trinetra110/civix/internal/core/ports"
)

// --- Service result → HTTP response ---

func toGrievanceResponse(v ports.GrievanceView) grievanceResponse {
	return grievanceResponse{
		ID:          v.ID,
		UserID:      v.UserID,
		Title:       v.Title,
		Description: v.Description,
		Status:      v.Status,
		Presentation: statusPresentationResponse{
			Label: v.Presentation.Label,
			Color: v.Presentation.Color,
		},
		FileURLs:    v.FileURLs,
		SubmittedAt: v.SubmittedAt.UTC(),
		LastUpdated: v.LastUpdated.UTC(),
		Version:     v.Version,
	}
}

func toGrievanceResponses(views []ports.GrievanceView) []grievanceResponse {
	out := make([]grievanceResponse, len(views))
	for i, v := range views {
		out[i] = toGrievanceResponse(v)
	}
	return out
}

func toListResponse(r *ports.ListGrievancesResult) listGrievancesResponse {
	return listGrievancesResponse{
		Active: toGrievanceResponses(r.Active),
		Past:   toGrievanceResponses(r.Past),
	}
}

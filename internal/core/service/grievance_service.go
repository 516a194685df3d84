package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trinetra110/civix/internal/core/domain"
	"github.com/trinetra110/civix/internal/core/ports"
)

const maxAttachments = 5

// acceptedMediaTypes mirrors the submission form's accept list: documents
// and images only.
var acceptedMediaTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"image/jpeg": {},
	"image/png":  {},
}

// fallbackTemplate is the deterministic local rendering used whenever the
// formatter is unavailable. It embeds the original title and description
// verbatim.
const fallbackTemplate = `FORMAL COMPLAINT

Subject: %s

Description: %s

I hereby formally submit this complaint for your consideration and request appropriate action to resolve this matter.`

// GrievanceService owns the grievance lifecycle: it is the only component
// that creates grievances or moves them through the status state machine.
type GrievanceService struct {
	repo      ports.GrievanceRepository
	users     ports.UserRepository
	files     ports.FileStore
	formatter ports.Formatter
	logger    zerolog.Logger
}

func NewGrievanceService(
	repo ports.GrievanceRepository,
	users ports.UserRepository,
	files ports.FileStore,
	formatter ports.Formatter,
	logger zerolog.Logger,
) *GrievanceService {
	return &GrievanceService{
		repo:      repo,
		users:     users,
		files:     files,
		formatter: formatter,
		logger:    logger,
	}
}

// Submit files a new grievance in status Pending. All attachments are
// uploaded before the document is created; any upload failure aborts the
// whole operation and no grievance exists afterwards. Already-uploaded blobs
// are not compensated (the backend offers no transaction spanning both).
func (s *GrievanceService) Submit(ctx context.Context, input ports.SubmitGrievanceInput) (*ports.GrievanceView, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	if input.OwnerID == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrValidation)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if len(input.Attachments) > maxAttachments {
		return nil, fmt.Errorf("%w: at most %d attachments allowed", domain.ErrValidation, maxAttachments)
	}
	for _, a := range input.Attachments {
		if _, ok := acceptedMediaTypes[a.ContentType]; !ok {
			return nil, fmt.Errorf("%w: unsupported media type %q", domain.ErrValidation, a.ContentType)
		}
	}

	// Uploads run sequentially, order preserved. First failure wins.
	fileURLs := make([]string, 0, len(input.Attachments))
	for _, a := range input.Attachments {
		url, err := s.files.Upload(ctx, a.Filename, a.ContentType, a.Data)
		if err != nil {
			s.logger.Error().Err(err).Str("filename", a.Filename).Msg("attachment upload failed")
			return nil, fmt.Errorf("%w: upload %s: %v", domain.ErrStorage, a.Filename, err)
		}
		fileURLs = append(fileURLs, url)
	}

	now := time.Now().UTC()
	grievance := &domain.Grievance{
		ID:          uuid.New().String(),
		UserID:      input.OwnerID,
		Title:       title,
		Description: description,
		Status:      domain.StatusPending,
		FileURLs:    fileURLs,
		SubmittedAt: now,
		LastUpdated: now,
		Version:     1,
	}

	if err := s.repo.Create(ctx, grievance); err != nil {
		s.logger.Error().Err(err).Msg("failed to create grievance")
		return nil, fmt.Errorf("%w: create grievance: %v", domain.ErrStorage, err)
	}

	s.logger.Info().
		Str("grievance_id", grievance.ID).
		Str("user_id", grievance.UserID).
		Int("attachments", len(fileURLs)).
		Msg("grievance submitted")

	view := toView(grievance)
	return &view, nil
}

// List returns the grievances visible to the caller, partitioned into
// active and past. The caller's scope is derived from the role directory:
// admins see everything, users see only their own records.
func (s *GrievanceService) List(ctx context.Context, input ports.ListGrievancesInput) (*ports.ListGrievancesResult, error) {
	caller, err := s.users.FindByID(ctx, input.CallerID)
	if err != nil {
		return nil, err
	}

	filter := ports.ListGrievancesFilter{}
	if caller.Role != domain.RoleAdmin {
		filter.UserID = caller.ID
	}

	grievances, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list grievances: %v", domain.ErrStorage, err)
	}

	active, past := domain.Partition(grievances)
	return &ports.ListGrievancesResult{
		Active: toViews(active),
		Past:   toViews(past),
	}, nil
}

// Get returns a single grievance. Only the owner and administrators may
// read it.
func (s *GrievanceService) Get(ctx context.Context, input ports.GetGrievanceInput) (*ports.GrievanceView, error) {
	caller, err := s.users.FindByID(ctx, input.CallerID)
	if err != nil {
		return nil, err
	}

	grievance, err := s.repo.FindByID(ctx, input.GrievanceID)
	if err != nil {
		return nil, err
	}

	if caller.Role != domain.RoleAdmin && grievance.UserID != caller.ID {
		return nil, domain.ErrForbidden
	}

	view := toView(grievance)
	return &view, nil
}

// Transition moves a grievance to a new status. The caller's role is
// re-derived from the role directory on every call; a role claim carried by
// the request is never trusted. The requested transition is validated
// against the state machine before the store is touched.
func (s *GrievanceService) Transition(ctx context.Context, input ports.TransitionInput) (*ports.GrievanceView, error) {
	caller, err := s.users.FindByID(ctx, input.CallerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	requested := domain.GrievanceStatus(input.Requested)
	if !requested.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, input.Requested)
	}

	grievance, err := s.repo.FindByID(ctx, input.GrievanceID)
	if err != nil {
		return nil, err
	}

	if !grievance.Status.CanTransitionTo(requested) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, grievance.Status, requested)
	}

	now := time.Now().UTC()
	if !now.After(grievance.LastUpdated) {
		// lastUpdated must strictly increase even on sub-tick clocks.
		now = grievance.LastUpdated.Add(time.Millisecond)
	}

	if err := s.repo.UpdateStatus(ctx, grievance.ID, requested, now); err != nil {
		s.logger.Error().Err(err).Str("grievance_id", grievance.ID).Msg("status update failed")
		return nil, fmt.Errorf("%w: update status: %v", domain.ErrStorage, err)
	}

	s.logger.Info().
		Str("grievance_id", grievance.ID).
		Str("from", string(grievance.Status)).
		Str("to", string(requested)).
		Str("admin_id", caller.ID).
		Msg("grievance transitioned")

	grievance.Status = requested
	grievance.LastUpdated = now
	grievance.Version++

	view := toView(grievance)
	return &view, nil
}

// FormatPreview renders the description as a formal complaint. The result
// is a proposal only; submission keeps the original text unless the caller
// explicitly resubmits with the formatted version. Formatter failures never
// block the flow: the fixed local template is substituted instead.
func (s *GrievanceService) FormatPreview(ctx context.Context, input ports.FormatInput) (*ports.FormatResult, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}

	formatted, err := s.formatter.Format(ctx, description)
	if err != nil || strings.TrimSpace(formatted) == "" {
		if err != nil {
			s.logger.Warn().Err(err).Msg("formatter unavailable, using local template")
		}
		return &ports.FormatResult{
			Formatted: fmt.Sprintf(fallbackTemplate, title, description),
			Fallback:  true,
		}, nil
	}

	return &ports.FormatResult{Formatted: formatted}, nil
}

func toView(g *domain.Grievance) ports.GrievanceView {
	fileURLs := g.FileURLs
	if fileURLs == nil {
		fileURLs = []string{}
	}
	return ports.GrievanceView{
		ID:           g.ID,
		UserID:       g.UserID,
		Title:        g.Title,
		Description:  g.Description,
		Status:       string(g.Status),
		Presentation: g.Status.Presentation(),
		FileURLs:     fileURLs,
		SubmittedAt:  g.SubmittedAt,
		LastUpdated:  g.LastUpdated,
		Version:      g.Version,
	}
}

func toViews(grievances []*domain.Grievance) []ports.GrievanceView {
	views := make([]ports.GrievanceView, len(grievances))
	for i, g := range grievances {
		views[i] = toView(g)
	}
	return views
}

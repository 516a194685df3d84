package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trinetra110/civix/internal/api/metrics"
	"github.com/trinetra110/civix/internal/core/domain"
	"github.com/trinetra110/civix/internal/core/ports"
)

// GrievanceHandler handles HTTP requests for grievance operations.
type GrievanceHandler struct {
	service ports.GrievanceService
}

func NewGrievanceHandler(service ports.GrievanceService) *GrievanceHandler {
	return &GrievanceHandler{service: service}
}

// Create handles POST /v1/grievances.
//
// @Summary      Submit a new grievance
// @Tags         grievances
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Grievance title"
// @Param        description  formData  string  true   "Grievance description"
// @Param        files        formData  file    false  "Attachments (max 5, documents or images)"
// @Success      201  {object}  grievanceResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/grievances [post]
func (h *GrievanceHandler) Create(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	title := c.FormValue("title")
	description := c.FormValue("description")

	attachments, err := readAttachments(c)
	if err != nil {
		return err
	}

	view, err := h.service.Submit(c.Request().Context(), ports.SubmitGrievanceInput{
		OwnerID:     userID,
		Title:       title,
		Description: description,
		Attachments: attachments,
	})
	if err != nil {
		if errors.Is(err, domain.ErrStorage) {
			metrics.UploadsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	if len(attachments) > 0 {
		metrics.UploadsTotal.WithLabelValues("ok").Add(float64(len(attachments)))
		metrics.GrievancesSubmittedTotal.WithLabelValues("yes").Inc()
	} else {
		metrics.GrievancesSubmittedTotal.WithLabelValues("no").Inc()
	}

	return c.JSON(http.StatusCreated, toGrievanceResponse(*view))
}

// List handles GET /v1/grievances. The scope (own vs. all) is derived from
// the caller's directory role inside the service.
//
// @Summary      List visible grievances, partitioned into active and past
// @Tags         grievances
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listGrievancesResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/grievances [get]
func (h *GrievanceHandler) List(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), ports.ListGrievancesInput{CallerID: userID})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get handles GET /v1/grievances/:id.
//
// @Summary      Get a grievance by id
// @Tags         grievances
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Grievance id"
// @Success      200  {object}  grievanceResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/grievances/{id} [get]
func (h *GrievanceHandler) Get(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	view, err := h.service.Get(c.Request().Context(), ports.GetGrievanceInput{
		GrievanceID: c.Param("id"),
		CallerID:    userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toGrievanceResponse(*view))
}

// Transition handles POST /v1/grievances/:id/status.
//
// @Summary      Transition a grievance to a new status
// @Tags         grievances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Grievance id"
// @Param        body  body      transitionRequest  true  "Requested status"
// @Success      200  {object}  grievanceResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/grievances/{id}/status [post]
func (h *GrievanceHandler) Transition(c echo.Context) error {
	userID, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.Transition(c.Request().Context(), ports.TransitionInput{
		GrievanceID: c.Param("id"),
		Requested:   req.Status,
		CallerID:    userID,
	})
	if err != nil {
		metrics.TransitionErrorsTotal.WithLabelValues(transitionErrorReason(err)).Inc()
		return err
	}

	metrics.TransitionsTotal.WithLabelValues(view.Status).Inc()
	return c.JSON(http.StatusOK, toGrievanceResponse(*view))
}

// Format handles POST /v1/grievances/format — formal-complaint preview.
//
// @Summary      Render a description as a formal complaint proposal
// @Tags         grievances
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      formatRequest  true  "Text to format"
// @Success      200  {object}  formatResponse
// @Failure      400  {object}  errorResponse
// @Router       /v1/grievances/format [post]
func (h *GrievanceHandler) Format(c echo.Context) error {
	if _, _, err := ctxPrincipal(c); err != nil {
		return err
	}

	var req formatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.FormatPreview(c.Request().Context(), ports.FormatInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	if result.Fallback {
		metrics.FormatterFallbackTotal.Inc()
	}

	return c.JSON(http.StatusOK, formatResponse{
		Formatted: result.Formatted,
		Fallback:  result.Fallback,
	})
}

// readAttachments extracts the uploaded files from the multipart form.
// An absent form or files field means a no-attachment submission.
func readAttachments(c echo.Context) ([]ports.AttachmentInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	files := form.File["files"]
	attachments := make([]ports.AttachmentInput, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable attachment")
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable attachment")
		}
		attachments = append(attachments, ports.AttachmentInput{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return attachments, nil
}

func transitionErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrGrievanceNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	default:
		return "internal"
	}
}

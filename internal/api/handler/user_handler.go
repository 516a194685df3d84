package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trinetra110/civix/internal/core/ports"
)

// UserHandler exposes directory lookups to administrators, used by the
// admin dashboard to show who filed a grievance.
type UserHandler struct {
	users ports.UserRepository
}

func NewUserHandler(users ports.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Get handles GET /v1/users/:id (admin only).
//
// @Summary      Get a user's directory record
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	if _, _, err := ctxPrincipal(c); err != nil {
		return err
	}

	user, err := h.users.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

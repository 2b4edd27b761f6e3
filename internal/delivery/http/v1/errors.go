package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/models"
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"message": err.Message})
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

// respondError maps service sentinels onto the API's status codes and
// messages. Anything unmapped surfaces as a 500 with the raw error text.
func (h *handlerImpl) respondError(c *gin.Context, err error) {
	var api apiError
	if errors.As(err, &api) {
		abort(c, api)
		return
	}

	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		abort(c, newUnauthorizedError("Invalid credentials"))
	case errors.Is(err, models.ErrEmailTaken):
		abort(c, newAPIError(http.StatusConflict, "Email already registered"))
	case errors.Is(err, models.ErrProjectKeyTaken):
		abort(c, newAPIError(http.StatusConflict, "Project key already exists"))
	case errors.Is(err, models.ErrUserNotFound):
		abort(c, newAPIError(http.StatusNotFound, "User not found"))
	case errors.Is(err, models.ErrProjectNotFound):
		abort(c, newAPIError(http.StatusNotFound, "Project not found"))
	case errors.Is(err, models.ErrTaskNotFound):
		abort(c, newAPIError(http.StatusNotFound, "Task not found"))
	case errors.Is(err, models.ErrNoProjectAccess):
		abort(c, newAPIError(http.StatusForbidden, "No access to project"))
	case errors.Is(err, models.ErrForbidden):
		abort(c, newAPIError(http.StatusForbidden, "Forbidden"))
	case errors.Is(err, models.ErrOwnerRemoval):
		abort(c, newBadRequestError("Cannot remove owner"))
	case errors.Is(err, models.ErrAssigneeNotMember):
		abort(c, newBadRequestError("Assignee not in project"))
	case errors.Is(err, models.ErrInvalidArgument):
		abort(c, newBadRequestError(err.Error()))
	default:
		h.logger.Error().
			Err(err).
			Msg("unhandled service error")
		abort(c, newAPIError(http.StatusInternalServerError, err.Error()))
	}
}

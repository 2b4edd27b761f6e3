package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskhub/internal/models"
)

type userListItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

func newUserListItem(user *models.User) userListItem {
	return userListItem{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Active: user.Active,
	}
}

func (h *handlerImpl) HandleListUsers(c *gin.Context) {
	if _, ok := h.callerID(c); !ok {
		return
	}

	users, err := h.users.ListUsers(c, c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]userListItem, len(users))
	for i := range users {
		response[i] = newUserListItem(&users[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetUser(c *gin.Context) {
	if _, ok := h.callerID(c); !ok {
		return
	}

	id := c.Param("id")
	if uuid.Validate(id) != nil {
		h.logger.Warn().
			Str("id", id).
			Msg("malformed user id")
		abort(c, newBadRequestError("Invalid id"))
		return
	}

	user, err := h.users.GetUser(c, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserListItem(user))
}

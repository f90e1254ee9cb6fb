package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/costschef/user-service/internal/application"
	"github.com/costschef/user-service/internal/domain/entity"
	"github.com/costschef/user-service/pkg/response"
	"github.com/costschef/user-service/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
}

func userView(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"firstName":  u.FirstName,
		"lastName":   u.LastName,
		"email":      u.Email,
		"gender":     u.Gender,
		"active":     u.Active,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userView(&users[i]))
	}
	response.Success(c, http.StatusOK, out, "users")
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user")
}

// Update PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, application.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
	})
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user updated")
}

// Delete DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.writeUserError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "user deleted")
}

func (h *UserHandler) writeUserError(c *gin.Context, err error) {
	if errors.Is(err, application.ErrUserNotFound) {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	if h.Logger != nil {
		h.Logger.WithError(err).Error("user request failed")
	}
	response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
}

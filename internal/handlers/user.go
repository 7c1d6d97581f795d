// ===============================
// internal/handlers/user.go - Admin user management
// ===============================

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"luemtv/internal/models"
)

type UserAdmin interface {
	List(ctx context.Context, q string) ([]models.Profile, error)
	Create(ctx context.Context, req models.CreateUserRequest) ([]models.Profile, error)
	Update(ctx context.Context, uid string, req models.UpdateUserRequest) ([]models.Profile, error)
	Delete(ctx context.Context, uid string) ([]models.Profile, error)
}

type UserHandler struct {
	users UserAdmin
}

func NewUserHandler(users UserAdmin) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	users, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"users": users})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	users, err := h.users.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// DeleteUser refuses to delete the calling admin.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if !requireConfirm(c) {
		return
	}
	if c.Param("id") == sess.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	users, err := h.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

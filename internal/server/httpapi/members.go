package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/gin-gonic/gin"
)

type profileRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	VoicePart *string `json:"voicePart"`
	Phone     *string `json:"phone"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ListMembers gives admins every account and members the directory.
func (h *Handler) ListMembers(c *gin.Context) {
	id := caller(c)
	ctx := c.Request.Context()

	if id.IsAdmin() {
		accs, err := h.accounts.ListAccounts(ctx, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, accs)
		return
	}

	dir, err := h.accounts.Directory(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dir)
}

func (h *Handler) ListPending(c *gin.Context) {
	accs, err := h.accounts.ListPending(c.Request.Context(), caller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, accs)
}

func (h *Handler) GetProfile(c *gin.Context) {
	h.Me(c)
}

func (h *Handler) GetMember(c *gin.Context) {
	acc, err := h.accounts.Profile(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bind(c, &req) {
		return
	}
	id := caller(c)
	acc, err := h.accounts.UpdateProfile(c.Request.Context(), id, id.AccountID, models.ProfileUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		VoicePart: req.VoicePart,
		Phone:     req.Phone,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.accounts.ChangePassword(c.Request.Context(), caller(c), req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

func (h *Handler) Approve(c *gin.Context) {
	acc, err := h.accounts.Approve(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member approved", "user": acc})
}

func (h *Handler) Reject(c *gin.Context) {
	if err := h.accounts.Reject(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registration rejected"})
}

func (h *Handler) ChangeRole(c *gin.Context) {
	var req roleRequest
	if !bind(c, &req) {
		return
	}
	acc, err := h.accounts.ChangeRole(c.Request.Context(), caller(c), c.Param("id"), req.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (h *Handler) DeleteMember(c *gin.Context) {
	if err := h.accounts.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	VoicePart string `json:"voicePart"`
	Phone     string `json:"phone"`
}

type RegisterResponse struct {
	Message          string                `json:"message"`
	User             *models.PublicAccount `json:"user"`
	RequiresApproval bool                  `json:"requiresApproval"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}

	acc, err := h.accounts.Register(c.Request.Context(), models.Registration{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		VoicePart: req.VoicePart,
		Phone:     req.Phone,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Message:          "Registration successful. Your account is waiting for administrator approval.",
		User:             acc,
		RequiresApproval: true,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}

	sess, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) Me(c *gin.Context) {
	id := caller(c)
	acc, err := h.accounts.Profile(c.Request.Context(), id, id.AccountID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

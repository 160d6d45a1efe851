package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListRehearsals(c *gin.Context) {
	items, err := h.rehearsals.List(c.Request.Context(), caller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetRehearsal(c *gin.Context) {
	item, err := h.rehearsals.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) CreateRehearsal(c *gin.Context) {
	var in models.RehearsalInput
	if !bind(c, &in) {
		return
	}
	item, err := h.rehearsals.Create(c.Request.Context(), caller(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateRehearsal(c *gin.Context) {
	var in models.RehearsalInput
	if !bind(c, &in) {
		return
	}
	item, err := h.rehearsals.Update(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteRehearsal(c *gin.Context) {
	if err := h.rehearsals.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

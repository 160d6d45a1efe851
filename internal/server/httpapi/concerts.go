package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListConcerts(c *gin.Context) {
	items, err := h.concerts.List(c.Request.Context(), caller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetConcert(c *gin.Context) {
	item, err := h.concerts.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) CreateConcert(c *gin.Context) {
	var in models.ConcertInput
	if !bind(c, &in) {
		return
	}
	item, err := h.concerts.Create(c.Request.Context(), caller(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateConcert(c *gin.Context) {
	var in models.ConcertInput
	if !bind(c, &in) {
		return
	}
	item, err := h.concerts.Update(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteConcert(c *gin.Context) {
	if err := h.concerts.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListSheetMusic(c *gin.Context) {
	items, err := h.sheetMusic.List(c.Request.Context(), h.resolvedCaller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetSheetMusic(c *gin.Context) {
	item, err := h.sheetMusic.Get(c.Request.Context(), h.resolvedCaller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateSheetMusic stores the metadata and answers with the URL the client
// must PUT the score to.
func (h *Handler) CreateSheetMusic(c *gin.Context) {
	var in models.SheetMusicInput
	if !bind(c, &in) {
		return
	}
	up, err := h.sheetMusic.Create(c.Request.Context(), h.resolvedCaller(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, up)
}

func (h *Handler) UpdateSheetMusic(c *gin.Context) {
	var in models.SheetMusicInput
	if !bind(c, &in) {
		return
	}
	item, err := h.sheetMusic.Update(c.Request.Context(), h.resolvedCaller(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteSheetMusic(c *gin.Context) {
	if err := h.sheetMusic.Delete(c.Request.Context(), h.resolvedCaller(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CompleteSheetMusic(c *gin.Context) {
	item, err := h.sheetMusic.Complete(c.Request.Context(), h.resolvedCaller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DownloadSheetMusic(c *gin.Context) {
	url, err := h.sheetMusic.Download(c.Request.Context(), h.resolvedCaller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, url)
}

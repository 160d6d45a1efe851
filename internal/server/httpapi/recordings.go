package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListRecordings(c *gin.Context) {
	items, err := h.recordings.List(c.Request.Context(), caller(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetRecording(c *gin.Context) {
	item, err := h.recordings.Get(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateRecording stores the metadata and answers with the URL the client
// must PUT the audio file to.
func (h *Handler) CreateRecording(c *gin.Context) {
	var in models.RecordingInput
	if !bind(c, &in) {
		return
	}
	up, err := h.recordings.Create(c.Request.Context(), caller(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, up)
}

func (h *Handler) UpdateRecording(c *gin.Context) {
	var in models.RecordingInput
	if !bind(c, &in) {
		return
	}
	item, err := h.recordings.Update(c.Request.Context(), caller(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteRecording(c *gin.Context) {
	if err := h.recordings.Delete(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CompleteRecording(c *gin.Context) {
	item, err := h.recordings.Complete(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DownloadRecording(c *gin.Context) {
	url, err := h.recordings.Download(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, url)
}

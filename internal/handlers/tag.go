package handlers

import (
	"net/http"

	"spectra/internal/services"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tags *services.TagService
}

func NewTagHandler(tags *services.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// List 全量标签目录带帖子计数
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tags.AllTagsWithCounts(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

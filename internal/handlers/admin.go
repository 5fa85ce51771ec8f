package handlers

import (
	"net/http"

	"spectra/internal/services"
	"spectra/internal/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	posts *services.PostService
}

func NewAdminHandler(posts *services.PostService) *AdminHandler {
	return &AdminHandler{posts: posts}
}

// DeletePost 管理删除：数据库和缓存一致性优先，磁盘清理尽力而为
func (h *AdminHandler) DeletePost(c *gin.Context) {
	postID := utils.StringToUint(c.Param("id"))
	if err := h.posts.Delete(c.Request.Context(), postID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type batchTagsRequest struct {
	PostIDs  []uint   `json:"post_ids" binding:"required"`
	TagNames []string `json:"tag_names" binding:"required"`
	Action   string   `json:"action" binding:"required"`
}

// BatchUpdateTags 批量加/减/重置标签
func (h *AdminHandler) BatchUpdateTags(c *gin.Context) {
	var req batchTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.posts.BatchUpdateTags(c.Request.Context(), req.PostIDs, req.TagNames, req.Action)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"net/http"

	"spectra/internal/middleware"
	"spectra/internal/models"
	"spectra/internal/services"
	"spectra/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type createCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentCommentID *uint  `json:"parent_comment_id"`
}

// commentView 在实体之上附带渲染好的内容 HTML
type commentView struct {
	models.Comment
	ContentHTML string `json:"content_html"`
}

func renderComment(comment models.Comment) commentView {
	return commentView{
		Comment:     comment,
		ContentHTML: utils.RenderMarkdown(comment.Content),
	}
}

func (h *CommentHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	postID := utils.StringToUint(c.Param("id"))

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), postID, user.ID, req.Content, req.ParentCommentID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, renderComment(*comment))
}

func (h *CommentHandler) List(c *gin.Context) {
	postID := utils.StringToUint(c.Param("id"))
	skip := utils.StringToInt(c.DefaultQuery("skip", "0"))
	limit := utils.StringToInt(c.DefaultQuery("limit", "10"))

	comments, err := h.comments.ListForPost(c.Request.Context(), postID, skip, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(comments, func(comment models.Comment, _ int) commentView {
		return renderComment(comment)
	}))
}

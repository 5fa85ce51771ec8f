package handlers

import (
	"net/http"

	"spectra/internal/middleware"
	"spectra/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

type castVoteRequest struct {
	PostID    *uint `json:"post_id"`
	CommentID *uint `json:"comment_id"`
	VoteType  int   `json:"vote_type" binding:"required"`
}

// Cast 投票/改票/取消三合一。返回 vote 为 null 表示本次操作取消了投票。
func (h *VoteHandler) Cast(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	target := services.VoteTarget{PostID: req.PostID, CommentID: req.CommentID}
	vote, err := h.votes.Cast(c.Request.Context(), user.ID, target, req.VoteType)
	if err != nil {
		abortWithError(c, err)
		return
	}

	upvotes, downvotes, err := h.votes.TargetCounts(c.Request.Context(), target)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"vote":      vote,
		"upvotes":   upvotes,
		"downvotes": downvotes,
	})
}

package handlers

import (
	"errors"
	"log"
	"net/http"

	"spectra/internal/services"

	"github.com/gin-gonic/gin"
)

// abortWithError 服务层错误到 HTTP 状态码的统一映射。
// 校验错误和冲突是客户端错误，存储错误一律 500 并记日志。
func abortWithError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	case services.IsConflict(err):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"detail": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "Not found"})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

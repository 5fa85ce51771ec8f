package handlers

import (
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"spectra/internal/config"
	"spectra/internal/middleware"
	"spectra/internal/models"
	"spectra/internal/services"
	"spectra/internal/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type PostHandler struct {
	posts *services.PostService
	cfg   *config.Config
}

func NewPostHandler(posts *services.PostService, cfg *config.Config) *PostHandler {
	return &PostHandler{posts: posts, cfg: cfg}
}

// postDetail 在实体之上附带渲染好的描述 HTML
type postDetail struct {
	models.Post
	DescriptionHTML string `json:"description_html,omitempty"`
}

// imageURL 拼出静态文件路径，缩略图暂与原图相同
func (h *PostHandler) imageURL(filename string) string {
	return fmt.Sprintf("%s/static/uploads/%s", h.cfg.APIPrefix, filename)
}

func (h *PostHandler) decorate(post *models.Post) {
	post.ImageURL = h.imageURL(post.Filename)
	post.ThumbnailURL = post.ImageURL
}

// parseQuery 把请求参数翻译成查询规格，非法排序键交给 Normalize 报 422。
// limit 在这里就按服务层同样的范围收敛：Skip 和 total_pages 都基于
// 实际生效的页大小计算，否则分页信封与可见行数脱节
func parseQuery(c *gin.Context) (services.PostQuery, int) {
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := utils.StringToInt(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageSize)))
	if limit < 1 {
		limit = services.DefaultPageSize
	}
	if limit > services.MaxPageSize {
		limit = services.MaxPageSize
	}

	q := services.PostQuery{
		SortBy: c.Query("sort_by"),
		Order:  c.DefaultQuery("order", "desc"),
		Limit:  limit,
		Skip:   (page - 1) * limit,
	}
	if tags := strings.TrimSpace(c.Query("tags")); tags != "" {
		q.Tags = strings.Split(tags, ",")
	}
	if v := c.Query("uploaded_after"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.UploadedAfter = &t
		}
	}
	if v := c.Query("uploaded_before"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q.UploadedBefore = &t
		}
	}
	if v := c.Query("min_score"); v != "" {
		n := utils.StringToInt(v)
		q.MinScore = &n
	}
	if v := c.Query("min_width"); v != "" {
		if n := utils.StringToInt(v); n >= 1 {
			q.MinWidth = &n
		}
	}
	if v := c.Query("min_height"); v != "" {
		if n := utils.StringToInt(v); n >= 1 {
			q.MinHeight = &n
		}
	}
	q.UploaderName = c.Query("uploader_name")
	return q, page
}

// List 分页帖子列表，返回 {data,total_items,total_pages,current_page}
func (h *PostHandler) List(c *gin.Context) {
	q, page := parseQuery(c)

	posts, total, err := h.posts.List(c.Request.Context(), q)
	if err != nil {
		abortWithError(c, err)
		return
	}
	data := lo.Map(posts, func(post models.Post, _ int) models.Post {
		h.decorate(&post)
		return post
	})

	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(q.Limit)))
	}
	c.JSON(http.StatusOK, gin.H{
		"data":         data,
		"total_items":  total,
		"total_pages":  totalPages,
		"current_page": page,
	})
}

func (h *PostHandler) Get(c *gin.Context) {
	postID := utils.StringToUint(c.Param("id"))
	post, err := h.posts.Get(c.Request.Context(), postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.decorate(post)
	c.JSON(http.StatusOK, postDetail{
		Post:            *post,
		DescriptionHTML: utils.RenderMarkdown(post.Description),
	})
}

// Upload 接收 multipart 上传：MIME 头和嗅探内容双重检查、大小上限、
// UUID 文件名落盘，入库失败时清掉写了一半的文件
func (h *PostHandler) Upload(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "file is required"})
		return
	}
	if header.Size > h.cfg.MaxFileSizeMB*1024*1024 {
		c.JSON(http.StatusRequestEntityTooLarge,
			gin.H{"detail": fmt.Sprintf("File too large. Max size: %dMB", h.cfg.MaxFileSizeMB)})
		return
	}

	declared := header.Header.Get("Content-Type")
	if !lo.Contains(h.cfg.AllowedMimeTypes, declared) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid image type (header)"})
		return
	}

	file, err := header.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer file.Close()

	// 声明的 Content-Type 不可信，按文件内容再嗅探一次
	sniffed, err := mimetype.DetectReader(file)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !lo.Contains(h.cfg.AllowedMimeTypes, sniffed.String()) {
		c.JSON(http.StatusBadRequest,
			gin.H{"detail": fmt.Sprintf("Invalid image type (content: %s)", sniffed.String())})
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		abortWithError(c, err)
		return
	}
	width, height := utils.ProbeImageSize(file)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		abortWithError(c, err)
		return
	}

	if err := os.MkdirAll(h.cfg.UploadsDir, 0o755); err != nil {
		abortWithError(c, err)
		return
	}
	filename := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	diskPath := filepath.Join(h.cfg.UploadsDir, filename)

	dst, err := os.Create(diskPath)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(diskPath)
		abortWithError(c, err)
		return
	}
	dst.Close()

	input := services.CreatePostInput{
		Filename:    filename,
		Filepath:    diskPath,
		Mimetype:    sniffed.String(),
		Filesize:    header.Size,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Width:       width,
		Height:      height,
	}
	if tagsStr := c.PostForm("tags"); tagsStr != "" {
		input.Tags = strings.Split(tagsStr, ",")
	}

	post, err := h.posts.Create(c.Request.Context(), input, user.ID)
	if err != nil {
		// 数据库侧失败，清理磁盘上的孤儿文件
		if rmErr := os.Remove(diskPath); rmErr != nil {
			log.Printf("清理上传文件失败 %s: %v", diskPath, rmErr)
		}
		abortWithError(c, err)
		return
	}

	h.decorate(post)
	c.JSON(http.StatusCreated, post)
}

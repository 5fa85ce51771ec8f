package router

import (
	"spectra/internal/config"
	"spectra/internal/handlers"
	"spectra/internal/middleware"
	"spectra/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services 路由需要的全部服务，启动时注入
type Services struct {
	Users    *services.UserService
	Posts    *services.PostService
	Comments *services.CommentService
	Votes    *services.VoteService
	Tags     *services.TagService
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, svc Services) {
	// Handlers
	authHandler := handlers.NewAuthHandler(svc.Users)
	postHandler := handlers.NewPostHandler(svc.Posts, cfg)
	commentHandler := handlers.NewCommentHandler(svc.Comments)
	voteHandler := handlers.NewVoteHandler(svc.Votes)
	tagHandler := handlers.NewTagHandler(svc.Tags)
	adminHandler := handlers.NewAdminHandler(svc.Posts)

	r.Use(middleware.LoadUser(svc.Users))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.APIPrefix)

	// 上传的图片静态伺服
	api.Static("/static/uploads", cfg.UploadsDir)

	// 公共路由 (Public Routes)
	api.POST("/auth/register", authHandler.Register) // 注册
	api.POST("/auth/login", authHandler.Login)       // 登录
	api.POST("/auth/logout", authHandler.Logout)     // 退出登录

	api.GET("/posts", postHandler.List)                 // 帖子列表（过滤/排序/分页）
	api.GET("/posts/:id", postHandler.Get)              // 帖子详情
	api.GET("/posts/:id/comments", commentHandler.List) // 帖子的顶层评论
	api.GET("/tags", tagHandler.List)                   // 标签目录带计数

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/auth/me", authHandler.Me)
		authorized.POST("/posts", postHandler.Upload)                // 上传帖子
		authorized.POST("/posts/:id/comments", commentHandler.Create) // 发表评论
		authorized.POST("/votes", voteHandler.Cast)                  // 投票/改票/取消
	}

	// 管理路由 (Admin Routes)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.RequireModerator())
	{
		admin.GET("/posts", postHandler.List)                   // 管理视角的全量列表
		admin.DELETE("/posts/:id", adminHandler.DeletePost)     // 删除帖子
		admin.POST("/posts/tags", adminHandler.BatchUpdateTags) // 批量标签操作
	}
}

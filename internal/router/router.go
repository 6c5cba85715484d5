package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/threadlog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由。
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件：由外层平台写入 actor 身份
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("threadlog_session", store))
	r.Use(handler.ActorResolver())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 公开读取路由：匿名可见
	forum := r.Group("/api/forum")
	{
		forum.GET("/categories", api.ListCategories)
		forum.GET("/categories/:id/boards", api.ListBoards)
		forum.GET("/boards/:id/threads", api.ListThreads)
		forum.GET("/threads/:id", api.GetThread)
		forum.GET("/threads/:id/posts", api.ListPosts)
		forum.GET("/report-reasons", api.ListReportReasons)

		// 需要登录身份的写路由
		auth := forum.Group("")
		auth.Use(handler.RequireActor())
		{
			auth.POST("/boards/:id/threads", api.CreateThread)
			auth.PATCH("/threads/:id/title", api.EditThreadTitle)
			auth.POST("/threads/:id/posts", api.CreatePost)
			auth.PUT("/threads/:id/posts/:postID", api.EditPost)
			auth.DELETE("/threads/:id/posts/:postID", api.DeletePost)

			auth.POST("/threads/:id/read", api.MarkThreadRead)
			auth.GET("/threads/:id/unread", api.ThreadUnread)

			auth.POST("/threads/:id/reports", api.ReportThread)
			auth.POST("/posts/:id/reports", api.ReportPost)

			auth.GET("/posts/:id/revisions", api.ListRevisions)
			auth.POST("/posts/:id/revisions/:revisionID/restore", api.RestoreRevision)
		}
	}

	// 管理路由：能力校验在 service 层完成，这里只要求有身份
	mod := r.Group("/api/mod")
	mod.Use(handler.RequireActor())
	{
		mod.POST("/categories", api.CreateCategory)
		mod.PUT("/categories/:id", api.UpdateCategory)
		mod.DELETE("/categories/:id", api.DeleteCategory)
		mod.POST("/categories/swap", api.SwapCategories)

		mod.POST("/categories/:id/boards", api.CreateBoard)
		mod.PUT("/boards/:id", api.UpdateBoard)
		mod.DELETE("/boards/:id", api.DeleteBoard)
		mod.POST("/boards/:id/move", api.MoveBoard)
		mod.POST("/boards/swap", api.SwapBoards)

		mod.POST("/threads/:id/lock", api.LockThread())
		mod.POST("/threads/:id/unlock", api.UnlockThread())
		mod.POST("/threads/:id/pin", api.PinThread())
		mod.POST("/threads/:id/unpin", api.UnpinThread())
		mod.POST("/threads/:id/publish", api.PublishThread())
		mod.POST("/threads/:id/unpublish", api.UnpublishThread())
		mod.DELETE("/threads/:id", api.DeleteThread)

		mod.GET("/reports", api.ListReports)
		mod.POST("/reports/:type/:id/review", api.ReviewReport)
	}

	return r
}

package router

import (
	"github.com/gin-gonic/gin"

	"text-rewriter-api/internal/interfaces/http/handler"
)

// RegisterFormRoutes 注册浏览器表单页
func RegisterFormRoutes(g *gin.RouterGroup, formHandler *handler.FormHandler, limit gin.HandlerFunc) {
	g.GET("/", formHandler.Show)
	g.POST("/", limit, formHandler.Submit)
}

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, rewriteHandler *handler.RewriteHandler, limit gin.HandlerFunc) {
	v1.GET("/options", rewriteHandler.Options)
	v1.POST("/rewrite", limit, rewriteHandler.Rewrite)
}

package router

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-console/internal/core/server"
	mdw "user-console/internal/transport/http/middleware"
)

// NewConsoleEngine 控制台：ginzap 访问日志 + 页面模板
func NewConsoleEngine(l *zap.Logger, tmpl *template.Template, mods ...ConsoleModule) *gin.Engine {
	r := server.NewRouter(l)
	r.SetHTMLTemplate(tmpl)
	r.Use(mdw.RequestID(), mdw.Metrics())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	MountAllConsole(r.Group(""), mods...)
	return r
}

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-console/internal/core/server"
	mdw "user-console/internal/transport/http/middleware"
)

const APIPrefix = "/api/user"

type Limits struct {
	RPS         rate.Limit
	Burst       int
	PerIPRPS    rate.Limit
	PerIPBurst  int
	Concurrency int64
	MaxBody     int64
	Timeout     time.Duration
}

func DefaultLimits() Limits {
	return Limits{
		RPS: 200, Burst: 400,
		PerIPRPS: 20, PerIPBurst: 40,
		Concurrency: 300,
		MaxBody:     1 << 20,
		Timeout:     10 * time.Second,
	}
}

// NewAPIEngine 参考后端：REST 合约挂在 /api/user
func NewAPIEngine(l *zap.Logger, lim Limits, mods ...APIModule) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		server.CORS(mdw.KeyRequestID),
		mdw.RateLimit(lim.RPS, lim.Burst),
		mdw.RateLimitPerIP(lim.PerIPRPS, lim.PerIPBurst),
		mdw.ConcurrencyLimit(lim.Concurrency),
		mdw.MaxBodyBytes(lim.MaxBody),
		mdw.Timeout(lim.Timeout),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	MountAllAPI(r.Group(APIPrefix), mods...)
	return r
}

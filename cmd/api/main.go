package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"user-console/internal/core/cache"
	"user-console/internal/core/config"
	"user-console/internal/core/database"
	"user-console/internal/core/logger"
	"user-console/internal/core/server"
	"user-console/internal/domain"
	"user-console/internal/repo"
	"user-console/internal/transport/http/handler"
	"user-console/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 存储（失败直接 Fatal）
	users := mustOpenRepo(cfg, log)

	// redis 读缓存（可选）
	if rc := cache.FromConfig(cfg.Redis); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unreachable, reads fall back to db", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
		defer rc.Close()
		users = repo.WithCache(users, rc, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// 路由（REST 合约）
	r := router.NewAPIEngine(log, router.DefaultLimits(), handler.NewUserHandler(users, log))

	// HTTP Server
	srv := server.FromHTTPConfig(cfg.App.HTTP, r)
	baseURL := server.HumanURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", srv.Addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+router.APIPrefix),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("user api stopped gracefully")
}

// mustOpenRepo db.driver=memory 时不连数据库
func mustOpenRepo(cfg *config.Config, l *zap.Logger) domain.UserRepository {
	if cfg.DB.Driver == "memory" {
		l.Warn("using in-memory user store, data is lost on restart")
		return repo.NewMemoryUserRepo()
	}
	db, err := database.FromConfig(cfg.DB)
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	ur := repo.NewUserRepo(db)
	if cfg.DB.AutoMigrate {
		if err := ur.AutoMigrate(); err != nil {
			l.Fatal("automigrate failed", zap.Error(err))
		}
		l.Info("automigrate done")
	}
	return ur
}

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

	"user-console/internal/apiclient"
	"user-console/internal/core/config"
	"user-console/internal/core/logger"
	"user-console/internal/core/server"
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

	// 后端客户端
	api, err := apiclient.FromConfig(cfg.Backend)
	if err != nil {
		log.Fatal("api client", zap.Error(err))
	}
	tmpl, err := handler.ParseTemplates()
	if err != nil {
		log.Fatal("parse templates", zap.Error(err))
	}

	console := handler.NewConsoleHandler(api, log, handler.ConsoleOptions{
		EmailSuffixes: cfg.Form.EmailSuffixes,
		RenderTimeout: time.Duration(cfg.Backend.RenderTimeoutSec) * time.Second,
	})
	r := router.NewConsoleEngine(log, tmpl, console)

	// HTTP Server
	srv := server.FromHTTPConfig(cfg.App.Console, r)
	baseURL := server.HumanURL(cfg.App.Console.Host, cfg.App.Console.Port)
	log.Info("console starting",
		zap.String("addr", srv.Addr),
		zap.String("open", baseURL),
		zap.String("backend", api.BaseURL()),
		zap.Strings("email_suffixes", cfg.Form.EmailSuffixes),
	)

	// 异步启动；失败立即退出
	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("console start FAILED", zap.Error(err))
		}
	}()

	// 关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("console stopped gracefully")
}

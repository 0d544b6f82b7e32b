package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"snakeduel/server"
)

// SnakeDuel 入口：启动 HTTP + WebSocket 服务，装配房间注册表与会话协调器
func main() {
	cfg := server.LoadConfig()
	if err := server.InitLogger(cfg.LogFile); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	// 注册表在启动时构造一次并注入，不用包级可变状态
	metrics := server.NewMetrics()
	registry := server.NewRoomRegistry(nil, metrics)
	co := server.NewCoordinator(cfg, registry, metrics)

	r := chi.NewRouter()
	r.Get("/ws", co.HandleWS)
	// 管理与监控接口
	r.Get("/metrics", co.HandleMetrics)
	r.HandleFunc("/admin/config", co.HandleAdminConfig)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	// 前后端分离：/ 映射到 web 目录的静态资源
	r.Handle("/*", http.FileServer(http.Dir(cfg.WebDir)))

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	go func() {
		server.Log.Infof("SnakeDuel listening on %s; open http://localhost%v/", cfg.Addr, cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

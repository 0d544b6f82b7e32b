package server

import (
	"flag"
	"fmt"
	"os"
	"sync"
)

// Config 进程配置。监听地址等启动后不变；
// 房间默认值（棋盘大小、帧率）支持管理接口热调，只影响之后创建的房间，
// 已有房间的 gridsize 在其生命周期内固定。
type Config struct {
	Addr    string
	LogFile string
	WebDir  string

	mu        sync.RWMutex
	gridSize  int
	frameRate int
}

// DefaultConfig 内置默认值（测试与 LoadConfig 的起点）
func DefaultConfig() *Config {
	return &Config{
		Addr:      ":8080",
		LogFile:   "app.log",
		WebDir:    "web",
		gridSize:  DefaultGridSize,
		frameRate: DefaultFrameRate,
	}
}

// LoadConfig 解析启动参数，环境变量作为 flag 的默认值
func LoadConfig() *Config {
	cfg := DefaultConfig()
	flag.StringVar(&cfg.Addr, "addr", envOr("SNAKEDUEL_ADDR", cfg.Addr), "server listen address, e.g. :8080")
	flag.StringVar(&cfg.LogFile, "log", envOr("SNAKEDUEL_LOG", cfg.LogFile), "log file path")
	flag.StringVar(&cfg.WebDir, "web", envOr("SNAKEDUEL_WEB", cfg.WebDir), "static web assets directory")
	flag.IntVar(&cfg.gridSize, "grid", cfg.gridSize, "grid size for new rooms")
	flag.IntVar(&cfg.frameRate, "fps", cfg.frameRate, "ticks per second for new rooms")
	flag.Parse()
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// RoomDefaults 取新房间参数的快照
func (c *Config) RoomDefaults() (gridSize, frameRate int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gridSize, c.frameRate
}

// SetGridSize 热调新房间的棋盘大小
func (c *Config) SetGridSize(n int) error {
	if n < 8 || n > 64 {
		return fmt.Errorf("grid size %d out of range [8,64]", n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gridSize = n
	return nil
}

// SetFrameRate 热调新房间的帧率
func (c *Config) SetFrameRate(n int) error {
	if n < 1 || n > 60 {
		return fmt.Errorf("frame rate %d out of range [1,60]", n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frameRate = n
	return nil
}

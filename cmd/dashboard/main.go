package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paper-trader-go/config"
	"paper-trader-go/internal/container"
)

// 模拟盘行情看板守护进程：维护一条多路复用行情流、周期性拉取后端
// 权威快照，并把实时组合估值输出到日志与 Prometheus。
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	watch := flag.Bool("watch", false, "监听配置文件变更，热更新轮询间隔与成交窗口")
	flag.Parse()

	c, err := container.New(*cfgPath)
	if err != nil {
		log.Fatalf("初始化容器失败: %v", err)
	}
	if err := c.Build(); err != nil {
		log.Fatalf("构建组件失败: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.Start(ctx); err != nil {
		log.Fatalf("启动失败: %v", err)
	}

	if *watch {
		watcher := config.Watcher{Path: *cfgPath, Cooldown: 2 * time.Second}
		go func() {
			err := watcher.Start(ctx, c.Reload)
			if err != nil {
				c.Logger().LogError(err, map[string]interface{}{"action": "config_watch"})
			}
		}()
	}

	// 周期性健康自检，行情流断开或后端要求重新认证时给出告警日志
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.HealthCheck(); err != nil {
					c.Logger().LogError(err, map[string]interface{}{"action": "health_check"})
				}
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	if err := c.Stop(); err != nil {
		log.Printf("停止失败: %v", err)
	}
}

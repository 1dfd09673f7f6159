package config

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher 基于 fsnotify 监听配置文件变更，带冷却时间避免编辑器连续写
// 触发的重复加载。加载失败的变更被静默忽略，旧配置继续生效。
type Watcher struct {
	Path     string
	Cooldown time.Duration
}

// Start 启动监听协程；callback 在后台协程中收到最新配置。
func (w Watcher) Start(ctx context.Context, onUpdate func(AppConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(w.Path); err != nil {
		watcher.Close()
		return fmt.Errorf("watch config file: %w", err)
	}
	cooldown := w.Cooldown
	if cooldown <= 0 {
		cooldown = 2 * time.Second
	}

	go func() {
		defer watcher.Close()
		var lastReload time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if time.Since(lastReload) < cooldown {
					continue
				}
				lastReload = time.Now()
				if cfg, err := LoadWithEnvOverrides(w.Path); err == nil && onUpdate != nil {
					onUpdate(cfg)
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

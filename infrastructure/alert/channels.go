package alert

import (
	"fmt"

	"go.uber.org/zap"

	"paper-trader-go/infrastructure/logger"
)

// LoggerChannel 把告警写入结构化日志
type LoggerChannel struct {
	log  *logger.Logger
	name string
}

// NewLoggerChannel 创建结构化日志告警通道
func NewLoggerChannel(name string, log *logger.Logger) *LoggerChannel {
	return &LoggerChannel{log: log, name: name}
}

// Send 按级别写入对应的日志等级
func (c *LoggerChannel) Send(alert Alert) error {
	fields := make([]zap.Field, 0, len(alert.Fields)+2)
	fields = append(fields, zap.String("level", alert.Level))
	fields = append(fields, zap.Time("alert_ts", alert.Timestamp))
	for k, v := range alert.Fields {
		fields = append(fields, zap.Any(k, v))
	}

	switch alert.Level {
	case "ERROR", "CRITICAL":
		c.log.Error(alert.Message, fields...)
	case "WARNING":
		c.log.Warn(alert.Message, fields...)
	default:
		c.log.Info(alert.Message, fields...)
	}
	return nil
}

// Name 返回通道名称
func (c *LoggerChannel) Name() string {
	return c.name
}

// ConsoleChannel 控制台告警通道（彩色输出），本地调试用
type ConsoleChannel struct {
	name string
}

// NewConsoleChannel 创建控制台告警通道
func NewConsoleChannel(name string) *ConsoleChannel {
	return &ConsoleChannel{name: name}
}

// Send 发送告警到控制台（带颜色）
func (c *ConsoleChannel) Send(alert Alert) error {
	colorReset := "\033[0m"
	colorCode := ""

	switch alert.Level {
	case "INFO":
		colorCode = "\033[32m"
	case "WARNING":
		colorCode = "\033[33m"
	case "ERROR":
		colorCode = "\033[31m"
	case "CRITICAL":
		colorCode = "\033[35m"
	default:
		colorCode = colorReset
	}

	msg := fmt.Sprintf("%s[%s]%s %s - %s",
		colorCode,
		alert.Level,
		colorReset,
		alert.Timestamp.Format("2006-01-02 15:04:05"),
		alert.Message,
	)
	if len(alert.Fields) > 0 {
		msg += " | "
		for k, v := range alert.Fields {
			msg += fmt.Sprintf("%s=%v ", k, v)
		}
	}

	fmt.Println(msg)
	return nil
}

// Name 返回通道名称
func (c *ConsoleChannel) Name() string {
	return c.name
}

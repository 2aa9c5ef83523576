package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/ju4n3s0/GymIcesi-System/config"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger(&config.LogConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("format=%s 初始化失败: %v", format, err)
		}
		if l == nil {
			t.Fatalf("format=%s 返回了 nil logger", format)
		}
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "verbose", Format: "json"}); err == nil {
		t.Error("无效日志级别应返回错误")
	}
}

func TestBuildConfig(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		zc, err := buildConfig(&config.LogConfig{Level: "warn", Format: format})
		if err != nil {
			t.Fatalf("format=%s 构建配置失败: %v", format, err)
		}
		if zc.Sampling != nil {
			t.Errorf("format=%s 不应启用采样", format)
		}
		if zc.Development {
			t.Errorf("format=%s 不应为 development 模式", format)
		}
		if zc.InitialFields["app"] != "gym-icesi" {
			t.Errorf("format=%s 缺少 app 字段: %v", format, zc.InitialFields)
		}
		if zc.Level.Level() != zapcore.WarnLevel {
			t.Errorf("format=%s 期望 warn 级别，实际 %v", format, zc.Level.Level())
		}
	}

	zc, _ := buildConfig(&config.LogConfig{Level: "info", Format: "json"})
	if zc.EncoderConfig.TimeKey != "time" {
		t.Errorf("json 格式时间字段应为 time，实际 %q", zc.EncoderConfig.TimeKey)
	}
}

package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunIdKey Context 里带的运行标识（压测/演示一轮一个 id，方便串日志）
const RunIdKey = "run_id"

// 全局 Logger 实例
var Log *zap.Logger

// Init 初始化日志组件
// serviceName: 进程名（例如 "bookdemo"）
// level: 日志级别 (debug, info, warn, error)
func Init(serviceName string, level string) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.InfoLevel // 默认 Info
	}

	// JSON 输出到 stdout，容器化标准
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.MessageKey = "msg"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapLevel,
	)

	// AddCallerSkip(1)：封装了一层，不然行号永远指向 logger.go
	Log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).
		With(zap.String("service", serviceName))
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	extractRunID(ctx, &fields)
	Log.Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	extractRunID(ctx, &fields)
	Log.Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	extractRunID(ctx, &fields)
	Log.Error(msg, fields...)
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	extractRunID(ctx, &fields)
	Log.Debug(msg, fields...)
}

// Fatal 会调用 os.Exit
func Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	extractRunID(ctx, &fields)
	Log.Fatal(msg, fields...)
}

// extractRunID 从 Context 提取 run_id 追加到 fields
func extractRunID(ctx context.Context, fields *[]zap.Field) {
	if ctx == nil {
		return
	}
	if runID, ok := ctx.Value(RunIdKey).(string); ok && runID != "" {
		*fields = append(*fields, zap.String("run_id", runID))
	}
}

// Sync 刷缓冲，建议 main 里 defer 调用
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

package safe

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
	"orderbookx.com/pkg/logger"
)

// Go 安全启动协程：panic 不准打穿进程
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				if logger.Log != nil {
					logger.Error(context.Background(), "goroutine panic recovered",
						zap.Any("panic", r),
						zap.String("stack", stack),
					)
				} else {
					// logger 还没初始化就退回标准输出
					fmt.Printf("goroutine panic: %v\nstack: %s\n", r, stack)
				}
			}
		}()
		fn()
	}()
}

package middleware

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"CivicLink/config"
	"CivicLink/pkg/errors"
	"CivicLink/pkg/logger"
	"CivicLink/pkg/response"
)

// RecoverConfig recover 中间件配置
type RecoverConfig struct {
	// 是否启用堆栈追踪
	EnableStackTrace bool
	// 堆栈追踪级别（full, simple, none）
	StackTraceLevel string
	// 生产环境是否返回详细错误
	ExposeDetailsInProduction bool
	// 是否记录请求详情
	LogRequestDetails bool
	// 是否是生产环境
	IsProduction bool
}

// NewRecoverConfig 创建 recover 配置
func NewRecoverConfig() RecoverConfig {
	return RecoverConfig{
		EnableStackTrace:          true,
		StackTraceLevel:           "simple",
		ExposeDetailsInProduction: false,
		LogRequestDetails:         true,
		IsProduction:              config.Cfg.IsProduction(),
	}
}

// RecoverMiddleware 创建 recover 中间件
func RecoverMiddleware() app.HandlerFunc {
	return RecoverMiddlewareWithConfig(NewRecoverConfig())
}

// RecoverMiddlewareWithConfig 带配置的 recover 中间件
func RecoverMiddlewareWithConfig(cfg RecoverConfig) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				handlePanic(ctx, c, err, cfg)
			}
		}()

		c.Next(ctx)
	}
}

func handlePanic(ctx context.Context, c *app.RequestContext, err interface{}, cfg RecoverConfig) {
	var stack []byte
	if cfg.EnableStackTrace {
		stack = getStackTrace(cfg.StackTraceLevel)
	}

	logPanic(ctx, c, err, stack, cfg)
	writeErrorResponse(c, err, stack, cfg)
}

// writeErrorResponse 返回错误响应
func writeErrorResponse(c *app.RequestContext, err interface{}, stack []byte, cfg RecoverConfig) {
	var errDef errors.Definition
	if cfg.IsProduction && !cfg.ExposeDetailsInProduction {
		// 生产环境返回友好提示
		errDef = errors.Definition{
			Code:    "INTERNAL_SERVER_ERROR",
			Message: "Internal server error, please retry later",
		}
	} else {
		// 开发环境返回详细错误
		errDef = errors.Definition{
			Code:    "INTERNAL_SERVER_ERROR",
			Message: fmt.Sprintf("Internal error: %v", err),
		}
	}

	var details map[string]interface{}
	if !cfg.IsProduction || cfg.ExposeDetailsInProduction {
		details = map[string]interface{}{
			"panic":     fmt.Sprintf("%v", err),
			"timestamp": time.Now().Format(time.RFC3339),
		}

		if cfg.EnableStackTrace {
			details["stack"] = string(stack)
		}
	}

	if details != nil {
		response.ErrorWithDetails(context.Background(), c, errDef, details)
	} else {
		response.Error(context.Background(), c, errDef)
	}
}

// getStackTrace 获取堆栈追踪
func getStackTrace(level string) []byte {
	var buf bytes.Buffer

	switch level {
	case "full":
		// 完整的堆栈信息（所有 goroutine）
		buf.Write(debug.Stack())
	case "simple":
		// 简化的堆栈信息（当前 goroutine 的调用栈）
		buf.WriteString("goroutine panic:\n")
		skip := 3 // 跳过 runtime 和 recover 相关的函数
		for i := skip; ; i++ {
			pc, file, line, ok := runtime.Caller(i)
			if !ok {
				break
			}
			fn := runtime.FuncForPC(pc)
			if fn == nil {
				continue
			}
			buf.WriteString(fmt.Sprintf("  %s:%d\n    %s\n", file, line, fn.Name()))
		}
	}

	return buf.Bytes()
}

// getFormattedStack 格式化堆栈信息，移除 runtime 冗余行
func getFormattedStack(stack []byte) []byte {
	if len(stack) == 0 {
		return nil
	}

	lines := strings.Split(string(stack), "\n")
	var filtered []string

	for i, line := range lines {
		if strings.Contains(line, "runtime/panic.go") ||
			strings.Contains(line, "runtime/defer.go") ||
			strings.Contains(line, "signal_unix.go") {
			continue
		}
		if !strings.Contains(line, "/runtime/") && !strings.Contains(line, "src/runtime/") {
			if i < len(lines)-1 && strings.Contains(lines[i+1], "\tsrc/runtime/") {
				continue
			}
			filtered = append(filtered, line)
		}
	}

	return []byte(strings.Join(filtered, "\n"))
}

// logPanic 记录 panic 日志（包含请求详情）
func logPanic(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte, cfg RecoverConfig) {
	fields := []zap.Field{
		zap.String("panic", fmt.Sprintf("%v", err)),
		zap.String("path", string(c.Path())),
		zap.String("method", string(c.Method())),
		zap.String("client_ip", c.ClientIP()),
		zap.String("user_agent", string(c.UserAgent())),
	}

	requestID := string(c.GetHeader("X-Request-ID"))
	if requestID == "" {
		requestID = string(c.GetHeader("X-Trace-ID"))
	}
	fields = append(fields, zap.String("request_id", requestID))

	if staffID, exists := GetStaffID(ctx, c); exists {
		fields = append(fields, zap.String("staff_id", staffID))
	}

	if cfg.LogRequestDetails {
		headers := make(map[string]string)
		c.Request.Header.VisitAll(func(key, value []byte) {
			headers[string(key)] = string(value)
		})
		fields = append(fields, zap.Any("headers", headers))

		// 请求体只记小的文本体，避免把附件写进日志
		body := c.Request.Body()
		if len(body) > 0 && len(body) < 1024 {
			contentType := string(c.ContentType())
			if !strings.Contains(contentType, "multipart") &&
				!strings.Contains(contentType, "image") &&
				!strings.Contains(contentType, "video") {
				fields = append(fields, zap.String("body", string(body)))
			}
		}
	}

	if cfg.EnableStackTrace {
		fields = append(fields, zap.ByteString("stack", getFormattedStack(stack)))
	}

	logger.Logger.Error("[PANIC RECOVERED]", fields...)

	if isSeverePanic(err) {
		logger.Logger.Error("[SEVERE PANIC DETECTED]", fields...)
	}
}

// isSeverePanic 判断是否为严重错误
func isSeverePanic(err interface{}) bool {
	if err == nil {
		return false
	}

	errStr := fmt.Sprintf("%v", err)

	severePatterns := []string{
		"runtime: out of memory",
		"fatal error:",
		"concurrent map writes",
		"concurrent map read and map write",
		"runtime error: makeslice:",
		"all goroutines are asleep - deadlock!",
		"unexpected signal",
	}

	for _, pattern := range severePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

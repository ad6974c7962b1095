package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"CivicLink/pkg/logger"
)

// State 熔断器状态
type State int

const (
	StateClosed   State = iota // 关闭状态：正常工作
	StateOpen                  // 开启状态：熔断中
	StateHalfOpen              // 半开状态：尝试恢复
)

// CircuitBreaker 熔断器，保护短信网关等外部依赖
type CircuitBreaker struct {
	name             string
	maxFailures      int           // 最大失败次数
	resetTimeout     time.Duration // 重置超时时间
	halfOpenMaxCalls int           // 半开状态最大调用次数

	mu            sync.RWMutex
	state         State
	failures      int
	lastFailTime  time.Time
	halfOpenCalls int
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:             name,
		maxFailures:      maxFailures,
		resetTimeout:     resetTimeout,
		halfOpenMaxCalls: 3, // 半开状态允许3次尝试
		state:            StateClosed,
	}
}

// Call 执行带熔断保护的操作
func (cb *CircuitBreaker) Call(ctx context.Context, operation func() error) error {
	if !cb.allowRequest() {
		return fmt.Errorf("circuit breaker '%s' is open", cb.name)
	}

	err := operation()
	cb.recordResult(err)
	return err
}

// allowRequest 检查是否允许请求
func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(cb.lastFailTime) >= cb.resetTimeout {
			cb.transitionToHalfOpen()
			return true
		}
		return false
	case StateHalfOpen:
		if cb.halfOpenCalls < cb.halfOpenMaxCalls {
			cb.halfOpenCalls++
			return true
		}
		return false
	default:
		return false
	}
}

// recordResult 记录操作结果
func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.transitionToClosed()
	default:
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++
	cb.lastFailTime = time.Now()

	logger.Logger.Warn("Guarded operation failed",
		zap.String("breaker", cb.name),
		zap.Int("failures", cb.failures),
		zap.String("state", cb.stateName()),
	)

	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.maxFailures {
			cb.transitionToOpen()
		}
	case StateHalfOpen:
		cb.transitionToOpen()
	default:
	}
}

func (cb *CircuitBreaker) transitionToClosed() {
	cb.state = StateClosed
	cb.failures = 0
	cb.halfOpenCalls = 0

	logger.Logger.Info("Circuit breaker transitioned to closed",
		zap.String("breaker", cb.name),
	)
}

func (cb *CircuitBreaker) transitionToOpen() {
	cb.state = StateOpen
	cb.halfOpenCalls = 0

	logger.Logger.Warn("Circuit breaker transitioned to open",
		zap.String("breaker", cb.name),
		zap.Int("failures", cb.failures),
		zap.Duration("reset_timeout", cb.resetTimeout),
	)
}

func (cb *CircuitBreaker) transitionToHalfOpen() {
	cb.state = StateHalfOpen
	cb.halfOpenCalls = 0

	logger.Logger.Info("Circuit breaker transitioned to half-open",
		zap.String("breaker", cb.name),
	)
}

func (cb *CircuitBreaker) stateName() string {
	switch cb.state {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// GetState 获取当前状态
func (cb *CircuitBreaker) GetState() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// 全局熔断器实例
var (
	// 短信网关熔断器：连续失败5次后熔断，30秒后尝试恢复
	SMSBreaker = NewCircuitBreaker("sms_gateway", 5, 30*time.Second)
)

package services

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"flavor_ai/config"
	"flavor_ai/logger"
	"flavor_ai/metrics"
)

// ResilientCaller 为外部调用加上超时、一次重试和熔断保护
type ResilientCaller struct {
	name    string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[any]
}

// NewResilientCaller 创建外部调用包装器，timeout 为单次调用的超时时间
func NewResilientCaller(cfg *config.Config, name string, timeout time.Duration) *ResilientCaller {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	minRequests := cfg.Breaker.MinRequests
	threshold := cfg.Breaker.FailureThreshold

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    time.Duration(cfg.Breaker.IntervalSec) * time.Second,
		Timeout:     time.Duration(cfg.Breaker.TimeoutSec) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("熔断器状态变化", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &ResilientCaller{name: name, timeout: timeout, cb: cb}
}

// Do 执行调用，失败后最多重试一次；熔断打开时直接返回错误
func (r *ResilientCaller) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	start := time.Now()
	defer func() {
		metrics.ExternalCallDuration.WithLabelValues(r.name).Observe(time.Since(start).Seconds())
	}()

	var err error
	for attempt := 0; attempt < 2; attempt++ {
		_, err = r.cb.Execute(func() (any, error) {
			callCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			return nil, fn(callCtx)
		})
		if err == nil {
			metrics.ExternalCalls.WithLabelValues(r.name, "success").Inc()
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.ExternalCalls.WithLabelValues(r.name, "rejected").Inc()
			return err
		}
		if ctx.Err() != nil || isPermanent(err) {
			break
		}
		logger.Warn("外部调用失败，准备重试", "service", r.name, "attempt", attempt+1, "error", err)
	}
	metrics.ExternalCalls.WithLabelValues(r.name, "failure").Inc()
	return err
}

// permanentError 不应重试的错误，例如请求参数被拒绝
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent 标记错误不可重试
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func isPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

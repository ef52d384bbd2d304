// Package network serves a running simulation over HTTP and WebSocket and
// provides the client used by remote viewers.
package network

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/logging"
)

// NetworkService runs calls to the orrery server through a circuit breaker
// so a dead server fails fast instead of stalling the viewer.
type NetworkService struct {
	breaker    *gobreaker.CircuitBreaker
	logger     *logging.Logger
	maxRetries int
	baseDelay  time.Duration
}

// NetworkOperation performs one network call.
type NetworkOperation func() error

// NewNetworkService creates a NetworkService with breaker and retry
// settings taken from cfg.
func NewNetworkService(cfg config.ClientConfig, logger *logging.Logger) *NetworkService {
	if logger == nil {
		logger = logging.Discard()
	}

	settings := gobreaker.Settings{
		Name:        "orrery-network",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxConsecutive
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	maxRetries := cfg.RetryAttempts
	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &NetworkService{
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
		maxRetries: maxRetries,
		baseDelay:  cfg.RetryBaseDelay,
	}
}

// Execute runs operation through the circuit breaker. An open circuit
// fails immediately.
func (ns *NetworkService) Execute(ctx context.Context, operation NetworkOperation) error {
	_, err := ns.breaker.Execute(func() (interface{}, error) {
		return nil, operation()
	})
	if err != nil {
		ns.logger.LogWithContext(ctx, slog.LevelDebug, "circuit breaker execution failed",
			"error", err.Error(),
			"state", ns.breaker.State().String(),
		)
		return fmt.Errorf("circuit breaker: %w", err)
	}
	return nil
}

// ExecuteWithRetry runs operation up to the configured number of attempts
// with a linearly growing delay between them. It gives up early when the
// circuit opens or ctx is done.
func (ns *NetworkService) ExecuteWithRetry(ctx context.Context, operation NetworkOperation) error {
	var err error
	for attempt := 0; attempt < ns.maxRetries; attempt++ {
		if err = ns.Execute(ctx, operation); err == nil {
			return nil
		}

		if ns.breaker.State() == gobreaker.StateOpen {
			ns.logger.Warn(ctx, "circuit breaker is open, skipping retries",
				"attempt", attempt+1,
				"max_retries", ns.maxRetries,
			)
			return err
		}
		if attempt == ns.maxRetries-1 {
			break
		}

		delay := time.Duration(attempt+1) * ns.baseDelay
		ns.logger.Warn(ctx, "operation failed, retrying",
			"attempt", attempt+1,
			"max_retries", ns.maxRetries,
			"delay", delay.String(),
			"error", err.Error(),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	ns.logger.Error(ctx, "all retry attempts failed", err, "attempts", ns.maxRetries)
	return fmt.Errorf("max retries (%d) exceeded: %w", ns.maxRetries, err)
}

// GetState returns the current state of the circuit breaker.
func (ns *NetworkService) GetState() gobreaker.State {
	return ns.breaker.State()
}

// GetCounts returns the breaker's failure and success counts.
func (ns *NetworkService) GetCounts() gobreaker.Counts {
	return ns.breaker.Counts()
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/covenantlabs/covenant/internal/upstream"
)

// RetryPolicy bounds one invocation loop. MaxAttempts counts total calls to
// the upstream, not retries; Retryable decides which classifications earn
// another attempt; Delay computes the wait between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Retryable   func(upstream.Classification) bool
	Delay       DelayFunc
}

// InvokeResult carries the raw response text and the number of retries the
// run consumed. Attempts is zero when the first call succeeds.
type InvokeResult struct {
	Text     string
	Attempts int
}

// Invoker wraps an upstream system with classification-driven retries.
type Invoker struct {
	upstream upstream.System
	logger   *slog.Logger
}

// NewInvoker creates an Invoker over the given upstream system.
func NewInvoker(up upstream.System, logger *slog.Logger) *Invoker {
	return &Invoker{
		upstream: up,
		logger:   logger.With("system", "invoker"),
	}
}

// Invoke submits the prompt, retrying per the policy. Fatal classifications
// return the upstream error immediately with no further attempts; exhausting
// the budget returns ErrRetriesExhausted wrapping the final upstream error.
func (i *Invoker) Invoke(
	ctx context.Context,
	prompt string,
	policy RetryPolicy,
) (*InvokeResult, error) {
	var lastErr error

	for attempt := range policy.MaxAttempts {
		text, err := i.upstream.Generate(ctx, prompt)
		if err == nil {
			if attempt > 0 {
				i.logger.Info("upstream call recovered", "attempt", attempt)
			}
			return &InvokeResult{Text: text, Attempts: attempt}, nil
		}

		lastErr = err
		class := upstream.Classify(err)

		if !policy.Retryable(class) {
			i.logger.Error(
				"upstream call failed",
				"attempt", attempt,
				"classification", class,
				"error", err,
			)
			return nil, err
		}

		if attempt == policy.MaxAttempts-1 {
			break
		}

		delay := policy.Delay(class, attempt, upstream.RetryHint(err))
		i.logger.Warn(
			"upstream call failed, retrying",
			"attempt", attempt,
			"classification", class,
			"delay", delay,
			"error", err,
		)

		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w",
		ErrRetriesExhausted, policy.MaxAttempts, lastErr)
}

// sleep waits for the given duration or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package tools

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"workspacemcp/internal/docs"
)

const (
	maxAttempts         = 3
	initialRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff     = 5 * time.Second
)

// withRetry reruns the whole operation on transient backend failures.
// The engine itself never retries: a multi-phase edit that failed
// mid-batch must restart from a fresh snapshot, so the retry unit is
// the full operation. Everything non-transient aborts immediately.
func (h *Handlers) withRetry(ctx context.Context, tool, requestID string, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = h.retryInitial
	policy.MaxInterval = maxRetryBackoff

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, docs.ErrTransient) || attempt >= maxAttempts {
			return backoff.Permanent(err)
		}
		h.logger.Warn("tool.retry",
			"tool", tool,
			"request_id", requestID,
			"attempt", attempt,
			"error", err.Error(),
		)
		return err
	}, backoff.WithContext(policy, ctx))
}

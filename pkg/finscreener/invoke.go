package finscreener

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Invoke is the single entry point for every tool call. It resolves the
// endpoint descriptor, asks the quota for admission, acquires a bearer
// token, and dispatches the request. A call rejected with 401 is retried
// exactly once after a forced token refresh; a second rejection is fatal.
// On success the remote response body is returned unmodified.
func (c *Client) Invoke(ctx context.Context, tool string, params Params) ([]byte, error) {
	desc, ok := c.registry[tool]
	if !ok {
		c.metrics.observeInvocation(tool, "unknown_tool")

		return nil, &CallError{
			Kind:    KindUnknownTool,
			Message: fmt.Sprintf("unknown tool %q", tool),
		}
	}

	admitted, resetAt := c.quota.TryAdmit(desc.Class)
	if !admitted {
		c.metrics.observeInvocation(tool, "quota_denied")
		c.metrics.observeQuotaDenial(desc.Class)
		c.logger.Warn("call denied by local quota",
			zap.String("tool", tool),
			zap.String("class", string(desc.Class)),
			zap.Time("reset_at", resetAt),
		)

		return nil, &CallError{
			Kind:       KindQuotaExceeded,
			Message:    fmt.Sprintf("daily limit reached for %s endpoints", desc.Class),
			RetryAfter: resetAt,
		}
	}

	token, err := c.creds.Token(ctx)
	if err != nil {
		c.metrics.observeInvocation(tool, "auth_error")
		return nil, c.authCallError(err)
	}

	out := c.execute(ctx, desc, params, token)

	if out.kind == outcomeAuthExpired {
		// the token was rejected before its recorded expiry, force one
		// refresh and retry once
		c.logger.Debug("token rejected, refreshing", zap.String("tool", tool))

		token, err = c.creds.ForceRefresh(ctx)
		if err != nil {
			c.metrics.observeInvocation(tool, "auth_error")
			return nil, c.authCallError(err)
		}

		out = c.execute(ctx, desc, params, token)
		if out.kind == outcomeAuthExpired {
			c.metrics.observeInvocation(tool, "fatal")

			return nil, &CallError{
				Kind:    KindFatal,
				Message: "remote API rejected a freshly issued token",
				Status:  http.StatusUnauthorized,
			}
		}
	}

	return c.finishInvoke(tool, desc, out)
}

func (c *Client) finishInvoke(tool string, desc *EndpointDescriptor, out *outcome) ([]byte, error) {
	switch out.kind {
	case outcomeSuccess:
		c.metrics.observeInvocation(tool, "success")
		return out.body, nil

	case outcomeQuotaExceeded:
		c.metrics.observeInvocation(tool, "quota_denied")

		resetAt := out.resetAt
		if resetAt.IsZero() {
			resetAt = c.quota.resetTime(desc.Class)
		}

		return nil, &CallError{
			Kind:       KindQuotaExceeded,
			Message:    "remote API reported the daily limit reached",
			RetryAfter: resetAt,
		}

	case outcomeTimeout:
		c.metrics.observeInvocation(tool, "timeout")

		return nil, &CallError{
			Kind:    KindTimeout,
			Message: fmt.Sprintf("request timed out after %s", desc.Timeout),
		}

	case outcomeTransient:
		c.metrics.observeInvocation(tool, "network_error")

		return nil, &CallError{
			Kind:    KindNetworkError,
			Message: fmt.Sprintf("request failed: %v", out.err),
		}

	default:
		c.metrics.observeInvocation(tool, "fatal")

		msg := fmt.Sprintf("remote API returned status %d", out.status)
		if out.err != nil {
			msg = out.err.Error()
		}

		return nil, &CallError{
			Kind:    KindFatal,
			Message: msg,
			Status:  out.status,
			Body:    out.body,
		}
	}
}

func (c *Client) authCallError(err error) *CallError {
	if errors.Is(err, ErrInvalidAPIKey) {
		return &CallError{
			Kind:    KindInvalidKey,
			Message: "the configured API key was rejected by the login endpoint",
		}
	}

	return &CallError{
		Kind:    KindNetworkError,
		Message: err.Error(),
	}
}

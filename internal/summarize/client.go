package summarize

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"LearningAssistant/internal/domain"
	"LearningAssistant/internal/ports"
)

// Options tune the retry budget and per-call timeout.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// Client wraps a model backend with a per-request timeout and a bounded
// fixed-backoff retry policy. Transient failures (network, 5xx, timeout) are
// retried; authentication and malformed-request failures are not.
type Client struct {
	backend ports.ModelBackend
	opts    Options
	logger  *slog.Logger
}

var _ ports.Summarizer = (*Client)(nil)

// NewClient wires the backend behind the retry policy.
func NewClient(backend ports.ModelBackend, opts Options, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 2 * time.Second
	}
	return &Client{backend: backend, opts: opts, logger: logger}
}

// Summarize sends the rendered prompt to the backend and returns the raw
// generated text with latency and backend identity attached.
func (c *Client) Summarize(ctx context.Context, prompt domain.PromptPayload) (domain.ModelResponse, error) {
	start := time.Now()
	attempts := c.opts.MaxRetries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.ModelResponse{}, err
		}

		callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
		raw, err := c.backend.Infer(callCtx, prompt.RenderedPrompt)
		cancel()

		if err == nil {
			return domain.ModelResponse{
				RawText:     raw,
				Latency:     time.Since(start),
				BackendUsed: c.backend.Name(),
			}, nil
		}

		classified, transient := c.classify(ctx, err)
		if !transient {
			return domain.ModelResponse{}, classified
		}
		lastErr = classified

		c.debug("transient backend failure", "attempt", attempt, "attempts", attempts, "template", prompt.TemplateID, "error", err)

		if attempt == attempts {
			break
		}
		timer := time.NewTimer(c.opts.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.ModelResponse{}, ctx.Err()
		case <-timer.C:
		}
	}

	return domain.ModelResponse{}, lastErr
}

// classify buckets a backend failure into the error taxonomy and reports
// whether the retry budget applies to it.
func (c *Client) classify(ctx context.Context, err error) (error, bool) {
	backend := c.backend.Name()

	var fatal *domain.FatalBackendError
	if errors.As(err, &fatal) {
		return err, false
	}

	var status *domain.BackendStatusError
	if errors.As(err, &status) {
		switch {
		case status.StatusCode == http.StatusBadRequest,
			status.StatusCode == http.StatusUnauthorized,
			status.StatusCode == http.StatusForbidden:
			return &domain.FatalBackendError{Backend: backend, Err: err}, false
		case status.StatusCode == http.StatusRequestTimeout,
			status.StatusCode == http.StatusTooManyRequests,
			status.StatusCode >= http.StatusInternalServerError:
			return &domain.BackendUnavailableError{Backend: backend, Err: err}, true
		default:
			return &domain.FatalBackendError{Backend: backend, Err: err}, false
		}
	}

	// The parent context is still live, so a deadline came from the
	// per-call budget.
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return &domain.TimeoutError{Backend: backend, After: c.opts.Timeout}, true
	}
	if errors.Is(err, context.Canceled) {
		return err, false
	}

	return &domain.BackendUnavailableError{Backend: backend, Err: err}, true
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

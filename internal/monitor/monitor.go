package monitor

import (
	"context"
	"fmt"
	"funpaybot/internal/logger"
	sentryutil "funpaybot/internal/sentry"
	"sync"
	"time"
)

// TokenSource provides the current marketplace token, empty when unset.
type TokenSource interface {
	Token() string
}

// Step performs one monitoring pass with the given token.
type Step func(ctx context.Context, token string) error

// Status is a snapshot of the loop's progress.
type Status struct {
	Cycles    int       `json:"cycles"`
	Failures  int       `json:"failures"`
	LastRun   time.Time `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
}

// Monitor polls the marketplace while a token is configured.
type Monitor struct {
	tokens   TokenSource
	step     Step
	interval time.Duration
	backoff  time.Duration

	mu     sync.RWMutex
	status Status
}

// New returns a Monitor that waits interval between cycles and backoff after
// a failed one. A nil step uses LogStep.
func New(tokens TokenSource, step Step, interval, backoff time.Duration) *Monitor {
	if step == nil {
		step = LogStep
	}
	return &Monitor{tokens: tokens, step: step, interval: interval, backoff: backoff}
}

// LogStep is the placeholder pass until FunPay polling exists.
func LogStep(ctx context.Context, token string) error {
	logger.Info("monitor: funpay monitoring active", nil)
	return nil
}

// Run loops until ctx is cancelled. A failing or panicking cycle is logged and
// followed by the backoff delay; the loop never gives up on its own.
func (m *Monitor) Run(ctx context.Context) error {
	logger.Info("monitor: started", map[string]interface{}{
		"interval": m.interval.String(), "backoff": m.backoff.String(),
	})
	for {
		wait := m.interval
		if err := m.cycle(ctx); err != nil {
			wait = m.backoff
			logger.Error("monitor: cycle failed", map[string]interface{}{
				"error": err.Error(), "retry_in": wait.String(),
			})
			sentryutil.CaptureError(err, map[string]string{"component": "monitor"})
		}

		select {
		case <-ctx.Done():
			logger.Info("monitor: stopped", nil)
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (m *Monitor) cycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("monitor: panic: %v", r)
		}
		m.record(err)
	}()

	token := m.tokens.Token()
	if token == "" {
		return nil
	}
	return m.step(ctx, token)
}

func (m *Monitor) record(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Cycles++
	m.status.LastRun = time.Now()
	if err != nil {
		m.status.Failures++
		m.status.LastError = err.Error()
	}
}

// Status returns a copy of the current counters.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

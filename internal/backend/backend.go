// Package backend abstracts the LLM generation capability behind a
// single Generate operation, with one concrete variant per provider.
package backend

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Placeholder is the reply users see when generation fails for any
// reason. The raw failure is logged, never shown.
const Placeholder = "Sorry, I encountered an error. Try again later."

// Generator produces a reply for a prompt under the given system
// instructions. Implementations make a single attempt and honor
// context cancellation.
type Generator interface {
	Generate(ctx context.Context, instructions, prompt string) (string, error)
}

// Adapter absorbs generation failures so callers never branch on
// backend-specific error kinds.
type Adapter struct {
	gen     Generator
	timeout time.Duration
	log     *zap.SugaredLogger
}

// NewAdapter wraps a generator with the configured per-call timeout.
func NewAdapter(gen Generator, timeout time.Duration, log *zap.SugaredLogger) *Adapter {
	return &Adapter{gen: gen, timeout: timeout, log: log}
}

// Reply invokes the generator once, bounded by the timeout, and
// returns either its text or the fixed placeholder. Failures are
// logged with their cause.
func (a *Adapter) Reply(ctx context.Context, instructions, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.gen.Generate(ctx, instructions, prompt)
	if err != nil {
		a.log.Warnw("backend generation failed", "err", err)
		return Placeholder
	}
	return text
}

package service

import (
	"context"
	"time"

	"siapkit/internal/modules/planner/domain"
	plannerout "siapkit/internal/modules/planner/port/out"
	"siapkit/internal/platform/clock"
)

const postbackInterval = 100 * time.Millisecond

// PostbackWaiter blocks until an ASP.NET partial postback has finished and the
// document reports readyState "complete" on two consecutive polls.
type PostbackWaiter struct {
	clock   clock.Clock
	timeout time.Duration
}

func NewPostbackWaiter(clk clock.Clock, timeout time.Duration) *PostbackWaiter {
	return &PostbackWaiter{clock: clk, timeout: timeout}
}

// Wait returns nil on settle and on timeout alike; only cancellation is an error.
func (w *PostbackWaiter) Wait(ctx context.Context, doc plannerout.Document) error {
	deadline := w.clock.Now().Add(w.timeout)
	streak := 0
	for w.clock.Now().Before(deadline) {
		if w.poll(ctx, doc, &streak) {
			return nil
		}
		if err := w.clock.Sleep(ctx, postbackInterval); err != nil {
			return err
		}
	}
	return nil
}

func (w *PostbackWaiter) poll(ctx context.Context, doc plannerout.Document, streak *int) bool {
	async, err := doc.EvalBool(ctx, domain.AsyncPostbackScript)
	if err != nil {
		return false
	}
	if async {
		*streak = 0
		return false
	}
	state, err := doc.EvalString(ctx, domain.ReadyStateScript)
	if err != nil {
		return false
	}
	if state != "complete" {
		*streak = 0
		return false
	}
	*streak++
	return *streak >= 2
}

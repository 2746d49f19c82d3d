package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"siapkit/internal/modules/planner/domain"
	plannerout "siapkit/internal/modules/planner/port/out"
	apperrors "siapkit/internal/platform/errors"
)

const staleBackoff = 200 * time.Millisecond

// Getter re-queries the DOM on every call. A nil element with a nil error
// means there is nothing to click.
type Getter func(ctx context.Context) (plannerout.Element, error)

// Click scrolls el into view and clicks it by script, then falls back to a
// pointer click. It reports whether either worked.
func (s *Session) Click(ctx context.Context, el plannerout.Element) bool {
	if el == nil {
		return false
	}
	_ = el.ScrollIntoView(ctx)
	err := el.ScriptClick(ctx)
	if err == nil {
		return true
	}
	s.logger.Debug("script click failed", zap.Error(err))
	_ = el.ScrollIntoView(ctx)
	if err = el.PointerClick(ctx); err != nil {
		s.logger.Debug("pointer click failed", zap.Error(err))
		return false
	}
	return true
}

// MoveAndClick waits for a clickable sel and clicks it with the pointer.
func (s *Session) MoveAndClick(ctx context.Context, sel domain.Selector) error {
	el, err := s.WaitFor(ctx, sel, s.wait, true)
	if err != nil {
		return err
	}
	if err := el.PointerClick(ctx); err != nil {
		return fmt.Errorf("click %s: %w", sel, err)
	}
	return nil
}

// ClickWithRetry fetches a fresh element through get and clicks it, up to
// maxRetries attempts. Stale handles are retried after a short backoff and the
// last one is returned as an error. Settles the page after a successful click
// when settle is set.
func (s *Session) ClickWithRetry(ctx context.Context, get Getter, settle bool, maxRetries int) (bool, error) {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		el, err := get(ctx)
		if err != nil {
			if !errors.Is(err, apperrors.ErrStaleElement) {
				return false, err
			}
			if attempt == maxRetries {
				return false, err
			}
			if err := s.clock.Sleep(ctx, staleBackoff); err != nil {
				return false, err
			}
			continue
		}
		if el == nil {
			return false, nil
		}
		if s.Click(ctx, el) {
			if settle {
				if err := s.Settle(ctx); err != nil {
					return true, err
				}
			}
			return true, nil
		}
	}
	return false, nil
}

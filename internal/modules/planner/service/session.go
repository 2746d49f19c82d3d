package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"siapkit/internal/modules/planner/domain"
	plannerout "siapkit/internal/modules/planner/port/out"
	"siapkit/internal/platform/clock"
	apperrors "siapkit/internal/platform/errors"
)

const pollInterval = 500 * time.Millisecond

// Session tracks the browser and the document later lookups run against.
type Session struct {
	browser plannerout.Browser
	doc     plannerout.Document
	clock   clock.Clock
	logger  *zap.Logger
	wait    time.Duration
	waiter  *PostbackWaiter
}

func NewSession(browser plannerout.Browser, clk clock.Clock, logger *zap.Logger, wait time.Duration) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		browser: browser,
		doc:     browser.Top(),
		clock:   clk,
		logger:  logger,
		wait:    wait,
		waiter:  NewPostbackWaiter(clk, wait),
	}
}

func (s *Session) Browser() plannerout.Browser {
	return s.browser
}

func (s *Session) Document() plannerout.Document {
	return s.doc
}

func (s *Session) Wait() time.Duration {
	return s.wait
}

func (s *Session) SwitchToTop() {
	s.doc = s.browser.Top()
}

// SwitchToFrameContaining makes the document holding sel current: the top
// document first, then each first-level iframe. It reports false and leaves
// the session at the top document when sel is nowhere to be found.
func (s *Session) SwitchToFrameContaining(ctx context.Context, sel domain.Selector, probe time.Duration) (bool, error) {
	s.SwitchToTop()
	top := s.doc
	_, err := s.waitIn(ctx, top, sel, probe, false)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, apperrors.ErrTimeout) {
		return false, err
	}

	frames, _ := top.All(ctx, domain.Frames)
	for i, frame := range frames {
		doc, err := frame.Frame(ctx)
		if err != nil {
			continue
		}
		if _, err := s.waitIn(ctx, doc, sel, probe, false); err != nil {
			if ctx.Err() != nil {
				s.SwitchToTop()
				return false, ctx.Err()
			}
			continue
		}
		s.doc = doc
		s.logger.Info("switched to iframe", zap.Int("frame", i), zap.Stringer("selector", sel))
		return true, nil
	}
	s.SwitchToTop()
	return false, nil
}

// WaitFor polls the current document until sel is present, and interactable
// when clickable is set.
func (s *Session) WaitFor(ctx context.Context, sel domain.Selector, timeout time.Duration, clickable bool) (plannerout.Element, error) {
	return s.waitIn(ctx, s.doc, sel, timeout, clickable)
}

// WaitForAll polls the current document until at least one element matches sel.
func (s *Session) WaitForAll(ctx context.Context, sel domain.Selector, timeout time.Duration) ([]plannerout.Element, error) {
	deadline := s.clock.Now().Add(timeout)
	for {
		els, err := s.doc.All(ctx, sel)
		if err == nil && len(els) > 0 {
			return els, nil
		}
		if !s.clock.Now().Before(deadline) {
			return nil, fmt.Errorf("wait for %s: %w", sel, apperrors.ErrTimeout)
		}
		if err := s.clock.Sleep(ctx, pollInterval); err != nil {
			return nil, err
		}
	}
}

func (s *Session) waitIn(ctx context.Context, doc plannerout.Finder, sel domain.Selector, timeout time.Duration, clickable bool) (plannerout.Element, error) {
	deadline := s.clock.Now().Add(timeout)
	for {
		els, err := doc.All(ctx, sel)
		if err == nil {
			for _, el := range els {
				if !clickable {
					return el, nil
				}
				if ok, err := el.Interactable(ctx); err == nil && ok {
					return el, nil
				}
			}
		}
		if !s.clock.Now().Before(deadline) {
			return nil, fmt.Errorf("wait for %s: %w", sel, apperrors.ErrTimeout)
		}
		if err := s.clock.Sleep(ctx, pollInterval); err != nil {
			return nil, err
		}
	}
}

// Pause sleeps for d; only cancellation interrupts it.
func (s *Session) Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return s.clock.Sleep(ctx, d)
}

// Settle waits for the current document to finish any postback.
func (s *Session) Settle(ctx context.Context) error {
	return s.waiter.Wait(ctx, s.doc)
}

func (s *Session) Close() error {
	return s.browser.Close()
}

package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	plannerout "siapkit/internal/modules/planner/port/out"
	apperrors "siapkit/internal/platform/errors"
)

type AcquireError struct {
	Strategy string
	Err      error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Err)
}

func (e *AcquireError) Unwrap() error {
	return e.Err
}

// AcquisitionError reports that every browser strategy failed.
type AcquisitionError struct {
	Attempts []*AcquireError
}

func (e *AcquisitionError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		parts = append(parts, attempt.Error())
	}
	return fmt.Sprintf("%v: %s", apperrors.ErrNoBrowser, strings.Join(parts, "; "))
}

func (e *AcquisitionError) Unwrap() []error {
	errs := []error{apperrors.ErrNoBrowser}
	for _, attempt := range e.Attempts {
		errs = append(errs, attempt)
	}
	return errs
}

func (e *AcquisitionError) Last() error {
	if len(e.Attempts) == 0 {
		return apperrors.ErrNoBrowser
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// AcquireBrowser tries each strategy in order and returns the first browser
// obtained together with the name of the strategy that produced it.
func AcquireBrowser(ctx context.Context, strategies []plannerout.BrowserStrategy, logger *zap.Logger) (plannerout.Browser, string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	failure := &AcquisitionError{}
	for _, strategy := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		browser, err := strategy.Acquire(ctx)
		if err == nil {
			logger.Info("browser ready", zap.String("strategy", strategy.Name()))
			return browser, strategy.Name(), nil
		}
		logger.Warn("browser strategy failed", zap.String("strategy", strategy.Name()), zap.Error(err))
		failure.Attempts = append(failure.Attempts, &AcquireError{Strategy: strategy.Name(), Err: err})
	}
	logger.Error("could not start a browser", zap.Error(failure.Last()))
	return nil, "", failure
}

package out

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	plannerout "siapkit/internal/modules/planner/port/out"
)

const playwrightStopTimeout = 5 * time.Second

// launch starts bin with the flags that hide automation from the portal.
func launch(ctx context.Context, bin string, headless bool) (plannerout.Browser, error) {
	l := launcher.New().
		Context(ctx).
		Bin(bin).
		Headless(headless).
		Delete("enable-automation").
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("log-level", "3")
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", bin, err)
	}
	return connectRod(ctx, controlURL, l)
}

type systemStrategy struct {
	headless bool
}

// NewSystemStrategy uses a Chrome or Chromium already installed on the machine.
func NewSystemStrategy(headless bool) plannerout.BrowserStrategy {
	return systemStrategy{headless: headless}
}

func (systemStrategy) Name() string { return "system" }

func (s systemStrategy) Acquire(ctx context.Context) (plannerout.Browser, error) {
	bin, found := launcher.LookPath()
	if !found {
		return nil, errors.New("no installed chrome or chromium found")
	}
	return launch(ctx, bin, s.headless)
}

type managedStrategy struct {
	headless bool
}

// NewManagedStrategy downloads, once, the Chromium revision rod pins.
func NewManagedStrategy(headless bool) plannerout.BrowserStrategy {
	return managedStrategy{headless: headless}
}

func (managedStrategy) Name() string { return "managed" }

func (s managedStrategy) Acquire(ctx context.Context) (plannerout.Browser, error) {
	b := launcher.NewBrowser()
	b.Context = ctx
	bin, err := b.Get()
	if err != nil {
		return nil, fmt.Errorf("download chromium: %w", err)
	}
	return launch(ctx, bin, s.headless)
}

type playwrightStrategy struct {
	headless bool
	logger   *zap.Logger
}

// NewPlaywrightStrategy installs Chromium through the playwright driver and
// drives that binary with rod.
func NewPlaywrightStrategy(headless bool, logger *zap.Logger) plannerout.BrowserStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return playwrightStrategy{headless: headless, logger: logger}
}

func (playwrightStrategy) Name() string { return "playwright" }

func (s playwrightStrategy) Acquire(ctx context.Context) (plannerout.Browser, error) {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}, Verbose: false}); err != nil {
		return nil, fmt.Errorf("install playwright chromium: %w", err)
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	bin := pw.Chromium.ExecutablePath()
	s.stop(pw)
	if bin == "" {
		return nil, errors.New("playwright reported no chromium executable")
	}
	return launch(ctx, bin, s.headless)
}

// stop shuts the driver down without letting a hung Stop block the run.
func (s playwrightStrategy) stop(pw *playwright.Playwright) {
	done := make(chan error, 1)
	go func() { done <- pw.Stop() }()
	select {
	case err := <-done:
		if err != nil {
			s.logger.Debug("playwright stop", zap.Error(err))
		}
	case <-time.After(playwrightStopTimeout):
		s.logger.Debug("playwright stop timed out")
	}
}

// Strategies builds the named strategies in order, skipping unknown names.
func Strategies(names []string, headless bool, logger *zap.Logger) []plannerout.BrowserStrategy {
	out := make([]plannerout.BrowserStrategy, 0, len(names))
	for _, name := range names {
		switch name {
		case "system":
			out = append(out, NewSystemStrategy(headless))
		case "managed":
			out = append(out, NewManagedStrategy(headless))
		case "playwright":
			out = append(out, NewPlaywrightStrategy(headless, logger))
		default:
			if logger != nil {
				logger.Warn("unknown browser strategy", zap.String("name", name))
			}
		}
	}
	return out
}

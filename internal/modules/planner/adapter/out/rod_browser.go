package out

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"siapkit/internal/modules/planner/domain"
	plannerout "siapkit/internal/modules/planner/port/out"
	apperrors "siapkit/internal/platform/errors"
)

const pointerTimeout = 5 * time.Second

type rodBrowser struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
}

func connectRod(ctx context.Context, controlURL string, l *launcher.Launcher) (plannerout.Browser, error) {
	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("open page: %w", err)
	}
	return &rodBrowser{browser: browser, page: page, launcher: l}, nil
}

func (b *rodBrowser) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("load %s: %w", url, err)
	}
	return nil
}

func (b *rodBrowser) Top() plannerout.Document {
	return rodDocument{page: b.page}
}

func (b *rodBrowser) Close() error {
	err := b.browser.Close()
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	return err
}

type rodDocument struct {
	page *rod.Page
}

func (d rodDocument) All(ctx context.Context, sel domain.Selector) ([]plannerout.Element, error) {
	page := d.page.Context(ctx)
	var (
		els rod.Elements
		err error
	)
	if sel.By == domain.ByXPath {
		els, err = page.ElementsX(sel.Value)
	} else {
		els, err = page.Elements(cssFor(sel))
	}
	if err != nil {
		return nil, classify(err)
	}
	return wrapElements(els), nil
}

func (d rodDocument) EvalBool(ctx context.Context, js string) (bool, error) {
	res, err := d.page.Context(ctx).Eval(js)
	if err != nil {
		return false, classify(err)
	}
	return res.Value.Bool(), nil
}

func (d rodDocument) EvalString(ctx context.Context, js string) (string, error) {
	res, err := d.page.Context(ctx).Eval(js)
	if err != nil {
		return "", classify(err)
	}
	return res.Value.Str(), nil
}

type rodElement struct {
	el *rod.Element
}

func wrapElements(els rod.Elements) []plannerout.Element {
	out := make([]plannerout.Element, 0, len(els))
	for _, el := range els {
		out = append(out, rodElement{el: el})
	}
	return out
}

func (e rodElement) All(ctx context.Context, sel domain.Selector) ([]plannerout.Element, error) {
	el := e.el.Context(ctx)
	var (
		els rod.Elements
		err error
	)
	if sel.By == domain.ByXPath {
		els, err = el.ElementsX(sel.Value)
	} else {
		els, err = el.Elements(cssFor(sel))
	}
	if err != nil {
		return nil, classify(err)
	}
	return wrapElements(els), nil
}

func (e rodElement) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	return text, classify(err)
}

func (e rodElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	value, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, classify(err)
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

// Interactable mirrors a clickable check: visible and not disabled.
func (e rodElement) Interactable(ctx context.Context) (bool, error) {
	el := e.el.Context(ctx)
	visible, err := el.Visible()
	if err != nil || !visible {
		return false, classify(err)
	}
	disabled, err := el.Disabled()
	if err != nil {
		return false, classify(err)
	}
	return !disabled, nil
}

func (e rodElement) ScrollIntoView(ctx context.Context) error {
	return classify(e.el.Context(ctx).ScrollIntoView())
}

func (e rodElement) ScriptClick(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(`() => this.click()`)
	return classify(err)
}

func (e rodElement) PointerClick(ctx context.Context) error {
	return classify(e.el.Context(ctx).Timeout(pointerTimeout).Click(proto.InputMouseButtonLeft, 1))
}

// Fill clears the field and types text into it.
func (e rodElement) Fill(ctx context.Context, text string) error {
	el := e.el.Context(ctx)
	if _, err := el.Eval(`() => { this.value = '' }`); err != nil {
		return classify(err)
	}
	if text == "" {
		return nil
	}
	return classify(el.Input(text))
}

func (e rodElement) Frame(ctx context.Context) (plannerout.Document, error) {
	page, err := e.el.Context(ctx).Frame()
	if err != nil {
		return nil, classify(err)
	}
	return rodDocument{page: page}, nil
}

func cssFor(sel domain.Selector) string {
	switch sel.By {
	case domain.ByID:
		return `[id="` + sel.Value + `"]`
	case domain.ByName:
		return `[name="` + sel.Value + `"]`
	case domain.ByClass:
		return "." + sel.Value
	default:
		return sel.Value
	}
}

var staleMarkers = []string{
	"Could not find object",
	"cannot find object",
	"Could not find node",
	"Cannot find context",
	"Execution context was destroyed",
	"No node with given id",
	"does not belong to the document",
	"detached",
}

// classify marks errors caused by handles the page has since replaced.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isStale(err) {
		return fmt.Errorf("%w: %w", apperrors.ErrStaleElement, err)
	}
	return err
}

func isStale(err error) bool {
	var notFound *rod.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	msg := err.Error()
	var cdpErr *cdp.Error
	if errors.As(err, &cdpErr) {
		msg = cdpErr.Message + " " + cdpErr.Data
	}
	for _, marker := range staleMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

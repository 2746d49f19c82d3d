package service_test

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"siapkit/internal/modules/planner/domain"
	plannerout "siapkit/internal/modules/planner/port/out"
	"siapkit/internal/modules/planner/service"
	"siapkit/internal/platform/clock"
)

type fakeEl struct {
	text       string
	attrs      map[string]string
	children   map[string][]*fakeEl
	frame      *fakeDoc
	hidden     bool
	scriptErr  error
	pointerErr error
	clicks     int
	filled     string
	onClick    func()
}

func el(text string) *fakeEl {
	return &fakeEl{text: text}
}

func (e *fakeEl) put(sel domain.Selector, els ...*fakeEl) *fakeEl {
	if e.children == nil {
		e.children = map[string][]*fakeEl{}
	}
	e.children[sel.String()] = els
	return e
}

func (e *fakeEl) All(_ context.Context, sel domain.Selector) ([]plannerout.Element, error) {
	return wrap(e.children[sel.String()]), nil
}

func (e *fakeEl) Text(context.Context) (string, error) { return e.text, nil }

func (e *fakeEl) Attribute(_ context.Context, name string) (string, bool, error) {
	v, ok := e.attrs[name]
	return v, ok, nil
}

func (e *fakeEl) Interactable(context.Context) (bool, error) { return !e.hidden, nil }

func (e *fakeEl) ScrollIntoView(context.Context) error { return nil }

func (e *fakeEl) ScriptClick(context.Context) error {
	if e.scriptErr != nil {
		return e.scriptErr
	}
	e.click()
	return nil
}

func (e *fakeEl) PointerClick(context.Context) error {
	if e.pointerErr != nil {
		return e.pointerErr
	}
	e.click()
	return nil
}

func (e *fakeEl) Fill(_ context.Context, text string) error {
	e.filled = text
	return nil
}

func (e *fakeEl) Frame(context.Context) (plannerout.Document, error) {
	if e.frame == nil {
		return nil, errors.New("not a frame")
	}
	return e.frame, nil
}

func (e *fakeEl) click() {
	e.clicks++
	if e.onClick != nil {
		e.onClick()
	}
}

type fakeDoc struct {
	children    map[string][]*fakeEl
	async       []bool
	ready       []string
	alwaysAsync bool
	boolEvals   int
	stringEvals int
}

func (d *fakeDoc) put(sel domain.Selector, els ...*fakeEl) *fakeDoc {
	if d.children == nil {
		d.children = map[string][]*fakeEl{}
	}
	d.children[sel.String()] = els
	return d
}

func (d *fakeDoc) All(_ context.Context, sel domain.Selector) ([]plannerout.Element, error) {
	return wrap(d.children[sel.String()]), nil
}

func (d *fakeDoc) EvalBool(context.Context, string) (bool, error) {
	d.boolEvals++
	if d.alwaysAsync {
		return true, nil
	}
	if len(d.async) > 0 {
		v := d.async[0]
		d.async = d.async[1:]
		return v, nil
	}
	return false, nil
}

func (d *fakeDoc) EvalString(context.Context, string) (string, error) {
	d.stringEvals++
	if len(d.ready) > 0 {
		v := d.ready[0]
		d.ready = d.ready[1:]
		return v, nil
	}
	return "complete", nil
}

func wrap(els []*fakeEl) []plannerout.Element {
	out := make([]plannerout.Element, 0, len(els))
	for _, e := range els {
		out = append(out, e)
	}
	return out
}

type fakeBrowser struct {
	top         *fakeDoc
	navigated   string
	navigateErr error
	closed      bool
}

func (b *fakeBrowser) Navigate(_ context.Context, url string) error {
	if b.navigateErr != nil {
		return b.navigateErr
	}
	b.navigated = url
	return nil
}

func (b *fakeBrowser) Top() plannerout.Document { return b.top }

func (b *fakeBrowser) Close() error {
	b.closed = true
	return nil
}

type fakeStrategy struct {
	name    string
	browser plannerout.Browser
	err     error
	calls   int
}

func (s *fakeStrategy) Name() string { return s.name }

func (s *fakeStrategy) Acquire(context.Context) (plannerout.Browser, error) {
	s.calls++
	return s.browser, s.err
}

type fakeJournal struct {
	results []domain.ClassResult
}

func (j *fakeJournal) Record(_ context.Context, result domain.ClassResult) error {
	j.results = append(j.results, result)
	return nil
}

func (j *fakeJournal) Recent(_ context.Context, limit int) ([]domain.ClassResult, error) {
	if limit > len(j.results) {
		limit = len(j.results)
	}
	return j.results[:limit], nil
}

type fixedIDs struct{}

func (fixedIDs) New() string { return "run-1" }

var epoch = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newSession(top *fakeDoc) (*service.Session, *fakeBrowser, *clock.Manual) {
	browser := &fakeBrowser{top: top}
	clk := clock.NewManual(epoch)
	return service.NewSession(browser, clk, zap.NewNop(), 25*time.Second), browser, clk
}

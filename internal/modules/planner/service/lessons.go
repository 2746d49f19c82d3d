package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"siapkit/internal/modules/planner/domain"
	plannerout "siapkit/internal/modules/planner/port/out"
)

type LessonOptions struct {
	ClickAxis   bool
	MaxPerClass int
	OpenPause   time.Duration
	MarkerPause time.Duration
	SavePause   time.Duration
	LessonWait  time.Duration
	ReturnWait  time.Duration
}

// LessonProcessor plans every unplanned lesson of one class and returns to
// the class listing afterwards.
type LessonProcessor struct {
	session *Session
	tree    *TreeSelector
	opts    LessonOptions
	logger  *zap.Logger
}

func NewLessonProcessor(session *Session, tree *TreeSelector, opts LessonOptions, logger *zap.Logger) *LessonProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonProcessor{session: session, tree: tree, opts: opts, logger: logger}
}

// ClassRows re-lists the classes from the top document.
func (p *LessonProcessor) ClassRows(ctx context.Context) ([]plannerout.Element, error) {
	p.session.SwitchToTop()
	if buttons, err := p.session.Document().All(ctx, domain.ListButton); err == nil && len(buttons) > 0 {
		p.session.Click(ctx, buttons[0])
		if err := p.session.Settle(ctx); err != nil {
			return nil, err
		}
	}
	return p.session.WaitForAll(ctx, domain.ClassRows, p.session.Wait())
}

// Describe renders each row as its cell texts joined by " | ", or the row
// text when it has no cells.
func (p *LessonProcessor) Describe(ctx context.Context, rows []plannerout.Element) []domain.ClassRow {
	out := make([]domain.ClassRow, 0, len(rows))
	for i, row := range rows {
		out = append(out, domain.ClassRow{Index: i, Label: describeRow(ctx, row)})
	}
	return out
}

func describeRow(ctx context.Context, row plannerout.Element) string {
	cells, err := row.All(ctx, domain.RowCells)
	if err == nil && len(cells) > 0 {
		parts := make([]string, 0, len(cells))
		for _, cell := range cells {
			text, _ := cell.Text(ctx)
			parts = append(parts, text)
		}
		return strings.Join(parts, " | ")
	}
	text, _ := row.Text(ctx)
	return text
}

// PlanClass processes the class at index of the current listing. Problems
// with this class are reported through the result; only cancellation and a
// missing save button are returned as errors.
func (p *LessonProcessor) PlanClass(ctx context.Context, index int) (domain.ClassResult, error) {
	result := domain.ClassResult{Index: index, State: domain.ListingClasses, StartedAt: p.session.clock.Now()}
	finish := func(note string) domain.ClassResult {
		result.Note = note
		result.FinishedAt = p.session.clock.Now()
		return result
	}

	rows, err := p.ClassRows(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return finish(err.Error()), err
		}
		return finish(fmt.Sprintf("list classes: %v", err)), nil
	}
	if index < 0 || index >= len(rows) {
		p.logger.Warn("class index out of range", zap.Int("class", index+1), zap.Int("total", len(rows)))
		return finish(fmt.Sprintf("class %d out of range (%d listed)", index+1, len(rows))), nil
	}
	result.Label = describeRow(ctx, rows[index])
	p.logger.Info("opening class", zap.Int("class", index+1), zap.Int("total", len(rows)), zap.String("label", result.Label))

	p.session.Click(ctx, rows[index])
	result.State = domain.ClassOpened
	if err := p.session.Pause(ctx, p.opts.OpenPause); err != nil {
		return finish(err.Error()), err
	}

	edit, err := p.session.WaitFor(ctx, domain.EditButton, p.session.Wait(), true)
	if err != nil {
		if ctx.Err() != nil {
			return finish(err.Error()), err
		}
		p.logger.Error("could not enter edit mode", zap.Error(err))
		return finish("could not enter edit mode"), nil
	}
	p.session.Click(ctx, edit)
	if err := p.session.Settle(ctx); err != nil {
		return finish(err.Error()), err
	}
	result.State = domain.EditMode

	note, err := p.planLessons(ctx, &result)
	if err != nil {
		return finish(err.Error()), err
	}

	if p.ReturnToList(ctx) {
		result.State = domain.Returned
		result.OK = note == ""
	} else if note == "" {
		note = "could not return to the class list"
	}
	return finish(note), ctx.Err()
}

func (p *LessonProcessor) planLessons(ctx context.Context, result *domain.ClassResult) (string, error) {
	for iteration := 0; ; iteration++ {
		if p.opts.MaxPerClass > 0 && iteration >= p.opts.MaxPerClass {
			p.logger.Warn("lesson limit reached", zap.Int("limit", p.opts.MaxPerClass))
			return "", nil
		}
		p.session.SwitchToTop()
		markers, err := p.session.WaitForAll(ctx, domain.UnplannedLesson, p.opts.LessonWait)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			result.State = domain.LessonsExhausted
			p.logger.Info("no unplanned lessons left")
			return "", nil
		}
		result.State = domain.LessonPending
		marker := markers[0]
		number := "?"
		if value, ok, err := marker.Attribute(ctx, domain.LessonNumberAttr); err == nil && ok && value != "" {
			number = value
		}
		p.logger.Info("processing lesson", zap.String("lesson", number))
		if err := marker.ScriptClick(ctx); err != nil {
			p.logger.Warn("could not open lesson", zap.String("lesson", number), zap.Error(err))
			continue
		}
		if err := p.session.Pause(ctx, p.opts.MarkerPause); err != nil {
			return "", err
		}

		if p.opts.ClickAxis {
			if axis, err := p.session.WaitFor(ctx, domain.AxisDropdown, p.session.Wait(), true); err == nil {
				p.session.Click(ctx, axis)
				if err := p.session.Settle(ctx); err != nil {
					return "", err
				}
			}
		}

		if _, err := p.tree.Select(ctx); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			p.logger.Error("lesson tree selection failed", zap.String("lesson", number), zap.Error(err))
			return fmt.Sprintf("lesson %s: %v", number, err), nil
		}

		save, err := p.session.WaitFor(ctx, domain.SaveButton, p.session.Wait(), true)
		if err != nil {
			return "", fmt.Errorf("save lesson %s: %w", number, err)
		}
		p.session.Click(ctx, save)
		if err := p.session.Settle(ctx); err != nil {
			return "", err
		}
		result.LessonsSaved++
		result.State = domain.Saved
		p.logger.Info("lesson saved", zap.String("lesson", number))
		if err := p.session.Pause(ctx, p.opts.SavePause); err != nil {
			return "", err
		}
	}
}

type returnStrategy struct {
	name string
	find func(ctx context.Context) (plannerout.Element, error)
}

func (p *LessonProcessor) returnStrategies() []returnStrategy {
	first := func(sel domain.Selector) func(context.Context) (plannerout.Element, error) {
		return func(ctx context.Context) (plannerout.Element, error) {
			els, err := p.session.Document().All(ctx, sel)
			if err != nil || len(els) == 0 {
				return nil, err
			}
			return els[0], nil
		}
	}
	waitClickable := func(sel domain.Selector) func(context.Context) (plannerout.Element, error) {
		return func(ctx context.Context) (plannerout.Element, error) {
			return p.session.WaitFor(ctx, sel, p.opts.ReturnWait, true)
		}
	}
	return []returnStrategy{
		{name: "cancel button", find: waitClickable(domain.CancelButton)},
		{name: "cancel by name", find: first(domain.CancelByName)},
		{name: "return by text", find: first(domain.ReturnByText)},
		{name: "list button", find: waitClickable(domain.ListButton)},
	}
}

// ReturnToList tries each way back to the class listing in order, then
// clicks Listar once more. It reports whether the listing was reached.
func (p *LessonProcessor) ReturnToList(ctx context.Context) bool {
	strategies := p.returnStrategies()
	for _, strategy := range strategies {
		if p.tryReturn(ctx, strategy) {
			p.logger.Debug("returned to class list", zap.String("via", strategy.name))
			return true
		}
		if ctx.Err() != nil {
			return false
		}
	}
	p.logger.Warn("could not return to the class list; trying Listar again")
	return p.tryReturn(ctx, strategies[len(strategies)-1])
}

func (p *LessonProcessor) tryReturn(ctx context.Context, strategy returnStrategy) bool {
	p.session.SwitchToTop()
	el, err := strategy.find(ctx)
	if err != nil || el == nil {
		return false
	}
	p.session.Click(ctx, el)
	if err := p.session.Settle(ctx); err != nil {
		return false
	}
	_, err = p.ClassRows(ctx)
	return err == nil
}

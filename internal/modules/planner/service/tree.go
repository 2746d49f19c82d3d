package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"siapkit/internal/modules/planner/domain"
	plannerout "siapkit/internal/modules/planner/port/out"
	apperrors "siapkit/internal/platform/errors"
)

type TreeOptions struct {
	PerGroup           int
	PenultimatePhrases []string
	LastPhrases        []string
	// FrameProbe bounds the root lookup in each candidate document.
	FrameProbe time.Duration
	MaxRetries int
}

// TreeSelector ticks rows of the lesson tree: random rows in every common
// group, then the configured phrases in the last two groups.
type TreeSelector struct {
	session *Session
	opts    TreeOptions
	rand    *rand.Rand
	logger  *zap.Logger
}

func NewTreeSelector(session *Session, opts TreeOptions, rng *rand.Rand, logger *zap.Logger) *TreeSelector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 4
	}
	return &TreeSelector{session: session, opts: opts, rand: rng, logger: logger}
}

func (t *TreeSelector) Select(ctx context.Context) (domain.TreeSummary, error) {
	summary := domain.TreeSummary{}
	common, err := t.clickCommon(ctx)
	summary.Common = common
	if err != nil {
		return summary, err
	}
	t.logger.Info("random rows ticked", zap.Int("clicks", common))

	summary.Penultimate, err = t.clickPhrases(ctx, 2, t.opts.PenultimatePhrases)
	if err != nil {
		return summary, err
	}
	t.logger.Info("penultimate group ticked", zap.Int("clicks", summary.Penultimate))

	summary.Last, err = t.clickPhrases(ctx, 1, t.opts.LastPhrases)
	if err != nil {
		return summary, err
	}
	t.logger.Info("last group ticked", zap.Int("clicks", summary.Last))
	return summary, nil
}

func (t *TreeSelector) groups(ctx context.Context) ([]plannerout.Element, error) {
	found, err := t.session.SwitchToFrameContaining(ctx, domain.TreeRoot, t.opts.FrameProbe)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("lesson tree %s: %w", domain.TreeRoot, apperrors.ErrNotFound)
	}
	root, err := t.session.WaitFor(ctx, domain.TreeRoot, t.session.Wait(), false)
	if err != nil {
		return nil, err
	}
	return root.All(ctx, domain.TreeGroups)
}

func (t *TreeSelector) commonRows(ctx context.Context, group int) ([]plannerout.Element, error) {
	groups, err := t.groups(ctx)
	if err != nil {
		return nil, err
	}
	if group >= domain.CommonGroups(len(groups)) {
		return nil, nil
	}
	return groups[group].All(ctx, domain.TreeRows)
}

func (t *TreeSelector) clickCommon(ctx context.Context) (int, error) {
	groups, err := t.groups(ctx)
	if err != nil {
		return 0, err
	}
	per := t.opts.PerGroup
	total := 0
	for group := 0; group < domain.CommonGroups(len(groups)); group++ {
		clicked, attempts := 0, 0
		used := map[int]bool{}
		for clicked < per && attempts < per*6 {
			attempts++
			rows, err := t.commonRows(ctx, group)
			if errors.Is(err, apperrors.ErrStaleElement) {
				continue
			}
			if err != nil {
				return total, err
			}
			if len(rows) == 0 {
				break
			}
			idx, ok := domain.PickUnused(t.rand, len(rows), used)
			if !ok {
				break
			}
			ok, err = t.session.ClickWithRetry(ctx, t.rowGetter(group, idx), true, t.opts.MaxRetries)
			if err != nil {
				return total, err
			}
			if ok {
				used[idx] = true
				clicked++
				total++
			}
		}
		t.logger.Debug("common group ticked", zap.Int("group", group+1), zap.Int("clicks", clicked), zap.Int("attempts", attempts))
	}
	return total, nil
}

// rowGetter re-finds row idx of a common group, clamped to the current row count.
func (t *TreeSelector) rowGetter(group, idx int) Getter {
	return func(ctx context.Context) (plannerout.Element, error) {
		rows, err := t.commonRows(ctx, group)
		if err != nil || len(rows) == 0 {
			return nil, err
		}
		return ClickableTarget(ctx, rows[domain.Clamp(idx, len(rows))])
	}
}

func (t *TreeSelector) clickPhrases(ctx context.Context, fromEnd int, phrases []string) (int, error) {
	total := 0
	for _, phrase := range phrases {
		ok, err := t.session.ClickWithRetry(ctx, t.phraseGetter(fromEnd, phrase), true, t.opts.MaxRetries)
		if err != nil {
			return total, err
		}
		if ok {
			total++
			continue
		}
		t.logger.Debug("phrase not found", zap.Int("from_end", fromEnd), zap.String("phrase", phrase))
	}
	return total, nil
}

func (t *TreeSelector) phraseGetter(fromEnd int, phrase string) Getter {
	return func(ctx context.Context) (plannerout.Element, error) {
		groups, err := t.groups(ctx)
		if err != nil {
			return nil, err
		}
		idx, ok := domain.FromEnd(len(groups), fromEnd)
		if !ok {
			return nil, nil
		}
		rows, err := groups[idx].All(ctx, domain.TreeRows)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			text, err := row.Text(ctx)
			if err != nil {
				return nil, err
			}
			if domain.MatchesPhrase(text, phrase) {
				return ClickableTarget(ctx, row)
			}
		}
		return nil, nil
	}
}

// ClickableTarget returns the first element of row matching domain.TargetPriority,
// or row itself.
func ClickableTarget(ctx context.Context, row plannerout.Element) (plannerout.Element, error) {
	for _, sel := range domain.TargetPriority {
		els, err := row.All(ctx, sel)
		if err != nil {
			return nil, err
		}
		if len(els) > 0 {
			return els[0], nil
		}
	}
	return row, nil
}

package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"siapkit/internal/modules/planner/domain"
	plannerout "siapkit/internal/modules/planner/port/out"
	"siapkit/internal/platform/clock"
	apperrors "siapkit/internal/platform/errors"
	"siapkit/internal/platform/id"
)

type Options struct {
	PortalURL     string
	Wait          time.Duration
	Credentials   Credentials
	LoginPause    time.Duration
	PlanningPause time.Duration
	Tree          TreeOptions
	Lesson        LessonOptions
}

// DefaultOptions carries the pauses and waits the portal needs between steps.
func DefaultOptions() Options {
	return Options{
		Wait:          25 * time.Second,
		LoginPause:    700 * time.Millisecond,
		PlanningPause: 800 * time.Millisecond,
		Tree: TreeOptions{
			PerGroup:   3,
			FrameProbe: 1500 * time.Millisecond,
			MaxRetries: 4,
		},
		Lesson: LessonOptions{
			MaxPerClass: 200,
			OpenPause:   700 * time.Millisecond,
			MarkerPause: 300 * time.Millisecond,
			SavePause:   400 * time.Millisecond,
			LessonWait:  8 * time.Second,
			ReturnWait:  8 * time.Second,
		},
	}
}

type PlannerService struct {
	strategies []plannerout.BrowserStrategy
	journal    plannerout.Journal
	clock      clock.Clock
	ids        id.Generator
	rand       *rand.Rand
	opts       Options
	logger     *zap.Logger

	session *Session
	lessons *LessonProcessor
}

func NewPlannerService(
	strategies []plannerout.BrowserStrategy,
	journal plannerout.Journal,
	clk clock.Clock,
	ids id.Generator,
	rng *rand.Rand,
	opts Options,
	logger *zap.Logger,
) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{
		strategies: strategies,
		journal:    journal,
		clock:      clk,
		ids:        ids,
		rand:       rng,
		opts:       opts,
		logger:     logger,
	}
}

// Launch starts a browser through the first strategy that works.
func (s *PlannerService) Launch(ctx context.Context) (string, error) {
	browser, strategy, err := AcquireBrowser(ctx, s.strategies, s.logger.Named("driver"))
	if err != nil {
		return "", err
	}
	s.session = NewSession(browser, s.clock, s.logger.Named("session"), s.opts.Wait)
	tree := NewTreeSelector(s.session, s.opts.Tree, s.rand, s.logger.Named("tree"))
	s.lessons = NewLessonProcessor(s.session, tree, s.opts.Lesson, s.logger.Named("lessons"))
	return strategy, nil
}

// OpenPortal navigates the launched browser to the portal login page.
func (s *PlannerService) OpenPortal(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	if err := s.session.OpenPortal(ctx, s.opts.PortalURL); err != nil {
		return err
	}
	s.logger.Info("portal opened", zap.String("url", s.opts.PortalURL))
	return nil
}

// Login signs in on the open portal and opens the main menu. It returns the
// CAPTCHA it typed.
func (s *PlannerService) Login(ctx context.Context) (string, error) {
	if err := s.requireSession(); err != nil {
		return "", err
	}
	captcha, err := s.session.Authenticate(ctx, s.opts.Credentials, s.opts.LoginPause)
	if err != nil {
		return "", err
	}
	if err := s.session.MoveAndClick(ctx, domain.MenuTrigger); err != nil {
		return captcha, fmt.Errorf("open menu: %w", err)
	}
	return captcha, nil
}

// OpenPlanning opens the lesson planning screen and lists its classes.
func (s *PlannerService) OpenPlanning(ctx context.Context) ([]domain.ClassRow, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	if err := s.session.MoveAndClick(ctx, domain.PlanningLink); err != nil {
		return nil, err
	}
	if _, err := s.session.WaitFor(ctx, domain.Body, s.opts.Wait, false); err != nil {
		return nil, err
	}
	if err := s.session.MoveAndClick(ctx, domain.ListButton); err != nil {
		return nil, err
	}
	if err := s.session.Settle(ctx); err != nil {
		return nil, err
	}
	if err := s.session.Pause(ctx, s.opts.PlanningPause); err != nil {
		return nil, err
	}
	rows, err := s.lessons.ClassRows(ctx)
	if err != nil {
		return nil, err
	}
	return s.lessons.Describe(ctx, rows), nil
}

// PlanFrom processes classes start..total-1 in order. Failed classes are
// logged and skipped; the returned error is fatal for the whole run.
func (s *PlannerService) PlanFrom(ctx context.Context, start, total int) (string, []domain.ClassResult, error) {
	if err := s.requireSession(); err != nil {
		return "", nil, err
	}
	if start < 0 || start >= total {
		return "", nil, fmt.Errorf("class %d of %d: %w", start+1, total, apperrors.ErrInvalidInput)
	}
	runID := s.ids.New()
	results := make([]domain.ClassResult, 0, total-start)
	for index := start; index < total; index++ {
		result, err := s.lessons.PlanClass(ctx, index)
		result.RunID = runID
		results = append(results, result)
		s.record(ctx, result)
		if err != nil {
			return runID, results, err
		}
		if !result.OK {
			s.logger.Warn("class not completed, moving on", zap.Int("class", index+1), zap.String("reason", result.Note))
			_, _ = s.lessons.ClassRows(ctx)
		}
	}
	s.logger.Info("all classes processed", zap.Int("from", start+1), zap.Int("to", total))
	return runID, results, nil
}

func (s *PlannerService) record(ctx context.Context, result domain.ClassResult) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(context.WithoutCancel(ctx), result); err != nil {
		s.logger.Warn("journal record failed", zap.Error(err))
	}
}

// OpenExecution opens the Diário do Professor page and stops there.
func (s *PlannerService) OpenExecution(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	if err := s.session.MoveAndClick(ctx, domain.DiaryLink); err != nil {
		return err
	}
	s.logger.Info("professor diary opened")
	return nil
}

func (s *PlannerService) History(ctx context.Context, limit int) ([]domain.ClassResult, error) {
	if s.journal == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.journal.Recent(ctx, limit)
}

func (s *PlannerService) Close() error {
	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	s.lessons = nil
	return err
}

func (s *PlannerService) requireSession() error {
	if s.session == nil {
		return fmt.Errorf("browser not launched: %w", apperrors.ErrInvalidInput)
	}
	return nil
}

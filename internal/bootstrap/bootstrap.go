package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"go.uber.org/zap"

	plannerinadapter "siapkit/internal/modules/planner/adapter/in"
	planneroutadapter "siapkit/internal/modules/planner/adapter/out"
	plannerservice "siapkit/internal/modules/planner/service"
	plannerusecase "siapkit/internal/modules/planner/usecase"
	receiptinadapter "siapkit/internal/modules/receipt/adapter/in"
	receiptoutadapter "siapkit/internal/modules/receipt/adapter/out"
	receiptout "siapkit/internal/modules/receipt/port/out"
	receiptservice "siapkit/internal/modules/receipt/service"
	receiptusecase "siapkit/internal/modules/receipt/usecase"
	"siapkit/internal/platform/clock"
	"siapkit/internal/platform/config"
	"siapkit/internal/platform/id"
	"siapkit/internal/ui/console"
	"siapkit/internal/ui/prompt"
)

type App struct {
	Config     config.Config
	Logger     *zap.Logger
	ReceiptCLI receiptinadapter.CLIHandler

	planner *plannerinadapter.CLIHandler
	closers []io.Closer
}

// New wires the receipt pipeline. The planner and its run journal are built
// on first use through Planner.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{Config: cfg, Logger: logger}

	receiptSvc := receiptservice.NewReceiptService(
		map[string]receiptout.DatasetLoader{
			".csv":  receiptoutadapter.NewCSVLoader(cfg.Receipts.Encoding),
			".xlsx": receiptoutadapter.NewXLSXLoader(),
		},
		receiptoutadapter.NewPDFInspector(),
		receiptoutadapter.NewFPDFRenderer(),
		receiptoutadapter.NewPDFCPUMerger(),
		logger.Named("receipt"),
	)
	app.ReceiptCLI = receiptinadapter.NewCLIHandler(receiptusecase.NewInteractor(receiptSvc))
	return app, nil
}

// Planner opens the run journal and wires the planner the first time it is called.
func (a *App) Planner() (plannerinadapter.CLIHandler, error) {
	if a.planner != nil {
		return *a.planner, nil
	}
	cfg := a.Config
	journal, err := planneroutadapter.NewSQLiteJournal(cfg.Journal.Path)
	if err != nil {
		return plannerinadapter.CLIHandler{}, fmt.Errorf("new run journal: %w", err)
	}
	if c, ok := journal.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	opts := plannerservice.DefaultOptions()
	opts.PortalURL = cfg.PortalURL
	opts.Wait = cfg.Wait
	opts.Credentials = plannerservice.Credentials{Login: cfg.Login, Password: cfg.Password}
	opts.Tree.PerGroup = cfg.Tree.PerGroup
	opts.Tree.PenultimatePhrases = cfg.Tree.PenultimatePhrases
	opts.Tree.LastPhrases = cfg.Tree.LastPhrases
	opts.Lesson.ClickAxis = cfg.ClickDDLEixo
	opts.Lesson.MaxPerClass = cfg.Lesson.MaxPerClass

	svc := plannerservice.NewPlannerService(
		planneroutadapter.Strategies(cfg.Browser.Strategies, cfg.Browser.Headless, a.Logger.Named("planner.driver")),
		journal,
		clock.SystemClock{},
		id.UUID{},
		rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		opts,
		a.Logger.Named("planner"),
	)
	handler := plannerinadapter.NewCLIHandler(plannerusecase.NewInteractor(svc))
	a.planner = &handler
	return handler, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// RunPlanner runs the interactive planning session on in/out and returns the
// process exit code.
func RunPlanner(ctx context.Context, app *App, in io.Reader, out io.Writer) (int, error) {
	planner, err := app.Planner()
	if err != nil {
		return 1, err
	}
	return console.RunPlanner(ctx, planner, prompt.NewTeaPrompter(in, out), out, app.Logger.Named("console")), nil
}

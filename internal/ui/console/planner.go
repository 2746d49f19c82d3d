package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"siapkit/internal/modules/planner/dto"
	"siapkit/internal/ui/prompt"
	"siapkit/internal/ui/theme"
)

const (
	MenuPlan      = "1"
	MenuExecution = "2"
)

type plannerPort interface {
	Launch(ctx context.Context) (dto.LaunchOutput, error)
	OpenPortal(ctx context.Context) error
	Login(ctx context.Context) (dto.LoginOutput, error)
	OpenPlanning(ctx context.Context) (dto.OpenPlanningOutput, error)
	Plan(ctx context.Context, start int) (dto.PlanOutput, error)
	OpenExecution(ctx context.Context) error
	Close() error
}

type Prompter interface {
	Ask(ctx context.Context, question string) (string, error)
}

// RunPlanner drives the interactive lesson-planning session and returns the
// process exit code. Once a browser is up, the exit prompt is always shown
// and the browser always closed.
func RunPlanner(ctx context.Context, planner plannerPort, prompter Prompter, out io.Writer, logger *zap.Logger) int {
	if logger == nil {
		logger = zap.NewNop()
	}
	launched, err := planner.Launch(ctx)
	if err != nil {
		fmt.Fprintln(out, theme.Error.Render("[ERRO] Não foi possível iniciar o navegador."))
		logger.Error("launch browser", zap.Error(err))
		return 1
	}
	logger.Debug("browser ready", zap.String("strategy", launched.Strategy))

	if err := session(ctx, planner, prompter, out); err != nil {
		fmt.Fprintln(out, theme.Error.Render("Erro: "+err.Error()))
		logger.Error("planner flow", zap.Error(err))
	}

	if _, err := prompter.Ask(ctx, "Enter para sair…"); err != nil && !errors.Is(err, prompt.ErrCancelled) {
		logger.Debug("exit prompt", zap.Error(err))
	}
	if err := planner.Close(); err != nil {
		logger.Warn("close browser", zap.Error(err))
	}
	fmt.Fprintln(out, theme.Muted.Render("Navegador fechado!"))
	return 0
}

func session(ctx context.Context, planner plannerPort, prompter Prompter, out io.Writer) error {
	if err := planner.OpenPortal(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, theme.OK.Render("Site aberto com sucesso!"))
	login, err := planner.Login(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, theme.Muted.Render("Captcha: "+login.Captcha))

	fmt.Fprintln(out)
	fmt.Fprintln(out, theme.Title.Render(MenuPlan+" - Planejar Aula"))
	fmt.Fprintln(out, theme.Title.Render(MenuExecution+" - Executar Aula"))
	choice, err := prompter.Ask(ctx, "Digite o número da opção desejada:")
	if err != nil {
		return err
	}

	switch strings.TrimSpace(choice) {
	case MenuPlan:
		done, err := plan(ctx, planner, prompter, out)
		if err != nil || !done {
			return err
		}
	case MenuExecution:
		if err := planner.OpenExecution(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Abrindo Diário do Professor…")
	}
	fmt.Fprintln(out, theme.OK.Render("Fluxo finalizado."))
	return nil
}

// plan reports false when the run was aborted at the start prompt.
func plan(ctx context.Context, planner plannerPort, prompter Prompter, out io.Writer) (bool, error) {
	listing, err := planner.OpenPlanning(ctx)
	if err != nil {
		return false, err
	}
	for _, row := range listing.Classes {
		fmt.Fprintf(out, "%d - %s\n", row.Number, row.Label)
	}
	answer, err := prompter.Ask(ctx, "Começar a partir de qual número de turma?")
	if err != nil {
		return false, err
	}
	start, convErr := strconv.Atoi(strings.TrimSpace(answer))
	if convErr != nil {
		fmt.Fprintln(out, theme.Warn.Render("Entrada inválida. Abortando."))
		return false, nil
	}
	if start < 1 || start > len(listing.Classes) {
		fmt.Fprintln(out, theme.Warn.Render("Índice de turma inválido. Abortando."))
		return false, nil
	}

	result, err := planner.Plan(ctx, start)
	for _, o := range result.Outcomes {
		if o.OK {
			fmt.Fprintln(out, theme.OK.Render(fmt.Sprintf("Turma #%d: %d aula(s) salva(s).", o.Number, o.LessonsSaved)))
			continue
		}
		msg := fmt.Sprintf("[AVISO] Turma #%d: não foi possível completar/retomar. Tentando seguir.", o.Number)
		if o.Note != "" {
			msg += " (" + o.Note + ")"
		}
		fmt.Fprintln(out, theme.Warn.Render(msg))
	}
	if err != nil {
		return false, err
	}
	fmt.Fprintln(out, theme.Hot.Render("Todas as turmas (a partir da selecionada) foram processadas."))
	return true, nil
}

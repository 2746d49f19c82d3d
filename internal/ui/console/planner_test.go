package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"siapkit/internal/modules/planner/dto"
	"siapkit/internal/ui/console"
)

type fakePlanner struct {
	launchErr error
	portalErr error
	loginErr  error
	planErr   error
	classes   []dto.ClassRow
	outcomes  []dto.ClassOutcome
	planStart int
	opened    bool
	executed  bool
	closed    int
}

func (f *fakePlanner) Launch(context.Context) (dto.LaunchOutput, error) {
	return dto.LaunchOutput{Strategy: "system"}, f.launchErr
}

func (f *fakePlanner) OpenPortal(context.Context) error {
	return f.portalErr
}

func (f *fakePlanner) Login(context.Context) (dto.LoginOutput, error) {
	return dto.LoginOutput{Captcha: "AB12"}, f.loginErr
}

func (f *fakePlanner) OpenPlanning(context.Context) (dto.OpenPlanningOutput, error) {
	f.opened = true
	return dto.OpenPlanningOutput{Classes: f.classes}, nil
}

func (f *fakePlanner) Plan(_ context.Context, start int) (dto.PlanOutput, error) {
	f.planStart = start
	return dto.PlanOutput{RunID: "run-1", Outcomes: f.outcomes}, f.planErr
}

func (f *fakePlanner) OpenExecution(context.Context) error {
	f.executed = true
	return nil
}

func (f *fakePlanner) Close() error {
	f.closed++
	return nil
}

type scriptedPrompter struct {
	answers   []string
	questions []string
}

func (p *scriptedPrompter) Ask(_ context.Context, question string) (string, error) {
	p.questions = append(p.questions, question)
	if len(p.answers) == 0 {
		return "", nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func twoClasses() []dto.ClassRow {
	return []dto.ClassRow{{Number: 1, Label: "9A | Matemática"}, {Number: 2, Label: "9B | Matemática"}}
}

func TestRunPlannerPlansFromChosenClass(t *testing.T) {
	t.Parallel()
	planner := &fakePlanner{
		classes:  twoClasses(),
		outcomes: []dto.ClassOutcome{{Number: 2, OK: true, LessonsSaved: 3}},
	}
	prompter := &scriptedPrompter{answers: []string{"1", "2", ""}}
	var out bytes.Buffer

	code := console.RunPlanner(context.Background(), planner, prompter, &out, nil)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if planner.planStart != 2 {
		t.Fatalf("expected plan from class 2, got %d", planner.planStart)
	}
	text := out.String()
	for _, want := range []string{"Captcha: AB12", "1 - Planejar Aula", "2 - 9B | Matemática", "Turma #2: 3 aula(s)", "Fluxo finalizado.", "Navegador fechado!"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if planner.closed != 1 || prompter.questions[len(prompter.questions)-1] != "Enter para sair…" {
		t.Fatalf("exit prompt and close must run: closed=%d questions=%v", planner.closed, prompter.questions)
	}
}

func TestRunPlannerAbortsOnInvalidStart(t *testing.T) {
	t.Parallel()
	cases := []struct {
		answer string
		want   string
	}{
		{answer: "abc", want: "Entrada inválida. Abortando."},
		{answer: "0", want: "Índice de turma inválido. Abortando."},
		{answer: "3", want: "Índice de turma inválido. Abortando."},
	}
	for _, tc := range cases {
		planner := &fakePlanner{classes: twoClasses()}
		prompter := &scriptedPrompter{answers: []string{"1", tc.answer}}
		var out bytes.Buffer
		console.RunPlanner(context.Background(), planner, prompter, &out, nil)
		text := out.String()
		if !strings.Contains(text, tc.want) {
			t.Fatalf("answer %q: expected %q in output:\n%s", tc.answer, tc.want, text)
		}
		if strings.Contains(text, "Fluxo finalizado.") || planner.planStart != 0 {
			t.Fatalf("answer %q: run should abort before planning", tc.answer)
		}
		if planner.closed != 1 {
			t.Fatalf("answer %q: browser must be closed", tc.answer)
		}
	}
}

func TestRunPlannerExecutionMenu(t *testing.T) {
	t.Parallel()
	planner := &fakePlanner{}
	prompter := &scriptedPrompter{answers: []string{"2"}}
	var out bytes.Buffer
	console.RunPlanner(context.Background(), planner, prompter, &out, nil)
	if !planner.executed || planner.opened {
		t.Fatalf("choice 2 should only open the professor diary")
	}
	if !strings.Contains(out.String(), "Fluxo finalizado.") {
		t.Fatalf("expected flow finished message:\n%s", out.String())
	}
}

func TestRunPlannerUnknownChoiceDoesNothing(t *testing.T) {
	t.Parallel()
	planner := &fakePlanner{}
	prompter := &scriptedPrompter{answers: []string{"9"}}
	var out bytes.Buffer
	console.RunPlanner(context.Background(), planner, prompter, &out, nil)
	if planner.executed || planner.opened {
		t.Fatalf("unknown choice should not navigate")
	}
	if !strings.Contains(out.String(), "Fluxo finalizado.") {
		t.Fatalf("expected flow finished message:\n%s", out.String())
	}
}

func TestRunPlannerLaunchFailureExitsOne(t *testing.T) {
	t.Parallel()
	planner := &fakePlanner{launchErr: errors.New("no chrome")}
	prompter := &scriptedPrompter{}
	var out bytes.Buffer
	if code := console.RunPlanner(context.Background(), planner, prompter, &out, nil); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if len(prompter.questions) != 0 || planner.closed != 0 {
		t.Fatalf("nothing should run after a failed launch")
	}
}

func TestRunPlannerErrorsStillCloseBrowser(t *testing.T) {
	t.Parallel()
	planner := &fakePlanner{loginErr: errors.New("login field missing")}
	prompter := &scriptedPrompter{}
	var out bytes.Buffer
	if code := console.RunPlanner(context.Background(), planner, prompter, &out, nil); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	text := out.String()
	if !strings.Contains(text, "Erro: login field missing") || !strings.Contains(text, "Navegador fechado!") {
		t.Fatalf("unexpected output:\n%s", text)
	}
	if planner.closed != 1 || len(prompter.questions) != 1 {
		t.Fatalf("exit prompt and close must run after errors")
	}
}

func TestRunPlannerPortalFailureSkipsSuccessMessage(t *testing.T) {
	t.Parallel()
	planner := &fakePlanner{portalErr: errors.New("open portal: net::ERR_NAME_NOT_RESOLVED")}
	prompter := &scriptedPrompter{}
	var out bytes.Buffer
	console.RunPlanner(context.Background(), planner, prompter, &out, nil)
	text := out.String()
	if strings.Contains(text, "Site aberto com sucesso!") {
		t.Fatalf("success message printed after failed navigation:\n%s", text)
	}
	if !strings.Contains(text, "Erro: open portal") || planner.closed != 1 {
		t.Fatalf("expected error and browser close:\n%s", text)
	}
}

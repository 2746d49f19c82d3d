package in

import (
	"context"

	"siapkit/internal/modules/planner/dto"
	plannerin "siapkit/internal/modules/planner/port/in"
)

type CLIHandler struct {
	usecase plannerin.Usecase
}

func NewCLIHandler(usecase plannerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Launch(ctx context.Context) (dto.LaunchOutput, error) {
	return h.usecase.Launch(ctx)
}

func (h CLIHandler) OpenPortal(ctx context.Context) error {
	return h.usecase.OpenPortal(ctx)
}

func (h CLIHandler) Login(ctx context.Context) (dto.LoginOutput, error) {
	return h.usecase.Login(ctx)
}

func (h CLIHandler) OpenPlanning(ctx context.Context) (dto.OpenPlanningOutput, error) {
	return h.usecase.OpenPlanning(ctx)
}

func (h CLIHandler) Plan(ctx context.Context, start int) (dto.PlanOutput, error) {
	return h.usecase.Plan(ctx, dto.PlanInput{Start: start})
}

func (h CLIHandler) OpenExecution(ctx context.Context) error {
	return h.usecase.OpenExecution(ctx)
}

func (h CLIHandler) Close() error {
	return h.usecase.Close()
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]dto.HistoryEntry, error) {
	return h.usecase.History(ctx, dto.HistoryInput{Limit: limit})
}

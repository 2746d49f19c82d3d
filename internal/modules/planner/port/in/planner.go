package in

import (
	"context"

	"siapkit/internal/modules/planner/dto"
)

type Usecase interface {
	Launch(ctx context.Context) (dto.LaunchOutput, error)
	OpenPortal(ctx context.Context) error
	Login(ctx context.Context) (dto.LoginOutput, error)
	OpenPlanning(ctx context.Context) (dto.OpenPlanningOutput, error)
	Plan(ctx context.Context, input dto.PlanInput) (dto.PlanOutput, error)
	OpenExecution(ctx context.Context) error
	Close() error
	History(ctx context.Context, input dto.HistoryInput) ([]dto.HistoryEntry, error)
}

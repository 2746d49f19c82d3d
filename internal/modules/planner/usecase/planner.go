package usecase

import (
	"context"
	"fmt"

	"siapkit/internal/modules/planner/domain"
	"siapkit/internal/modules/planner/dto"
	plannerin "siapkit/internal/modules/planner/port/in"
	"siapkit/internal/modules/planner/service"
	apperrors "siapkit/internal/platform/errors"
)

type Interactor struct {
	svc    *service.PlannerService
	listed int
}

func NewInteractor(svc *service.PlannerService) plannerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Launch(ctx context.Context) (dto.LaunchOutput, error) {
	strategy, err := i.svc.Launch(ctx)
	if err != nil {
		return dto.LaunchOutput{}, err
	}
	return dto.LaunchOutput{Strategy: strategy}, nil
}

func (i *Interactor) OpenPortal(ctx context.Context) error {
	return i.svc.OpenPortal(ctx)
}

func (i *Interactor) Login(ctx context.Context) (dto.LoginOutput, error) {
	captcha, err := i.svc.Login(ctx)
	if err != nil {
		return dto.LoginOutput{}, err
	}
	return dto.LoginOutput{Captcha: captcha}, nil
}

func (i *Interactor) OpenPlanning(ctx context.Context) (dto.OpenPlanningOutput, error) {
	rows, err := i.svc.OpenPlanning(ctx)
	if err != nil {
		return dto.OpenPlanningOutput{}, err
	}
	i.listed = len(rows)
	classes := make([]dto.ClassRow, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, dto.ClassRow{Number: row.Index + 1, Label: row.Label})
	}
	return dto.OpenPlanningOutput{Classes: classes}, nil
}

// Plan processes every listed class from input.Start to the end of the listing.
func (i *Interactor) Plan(ctx context.Context, input dto.PlanInput) (dto.PlanOutput, error) {
	if input.Start < 1 || input.Start > i.listed {
		return dto.PlanOutput{}, fmt.Errorf("class number %d (1-%d): %w", input.Start, i.listed, apperrors.ErrInvalidInput)
	}
	runID, results, err := i.svc.PlanFrom(ctx, input.Start-1, i.listed)
	out := dto.PlanOutput{RunID: runID, Outcomes: make([]dto.ClassOutcome, 0, len(results))}
	for _, result := range results {
		out.Outcomes = append(out.Outcomes, dto.ClassOutcome{
			Number:       result.Index + 1,
			Label:        result.Label,
			LessonsSaved: result.LessonsSaved,
			OK:           result.OK,
			Note:         result.Note,
		})
	}
	return out, err
}

func (i *Interactor) OpenExecution(ctx context.Context) error {
	return i.svc.OpenExecution(ctx)
}

func (i *Interactor) Close() error {
	return i.svc.Close()
}

func (i *Interactor) History(ctx context.Context, input dto.HistoryInput) ([]dto.HistoryEntry, error) {
	results, err := i.svc.History(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryEntry, 0, len(results))
	for _, result := range results {
		out = append(out, toHistoryEntry(result))
	}
	return out, nil
}

func toHistoryEntry(result domain.ClassResult) dto.HistoryEntry {
	return dto.HistoryEntry{
		RunID:        result.RunID,
		Number:       result.Index + 1,
		Label:        result.Label,
		State:        result.State.String(),
		LessonsSaved: result.LessonsSaved,
		OK:           result.OK,
		Note:         result.Note,
		StartedAt:    result.StartedAt,
		FinishedAt:   result.FinishedAt,
	}
}

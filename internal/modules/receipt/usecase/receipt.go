package usecase

import (
	"context"

	"siapkit/internal/modules/receipt/dto"
	receiptin "siapkit/internal/modules/receipt/port/in"
	"siapkit/internal/modules/receipt/service"
)

type Interactor struct {
	svc *service.ReceiptService
}

func NewInteractor(svc *service.ReceiptService) receiptin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Generate(ctx context.Context, input dto.GenerateInput) (dto.GenerateOutput, error) {
	report, err := i.svc.Generate(ctx, service.Request{
		Input:     input.Input,
		Template:  input.Template,
		OutputDir: input.OutputDir,
		Overlay:   input.Overlay,
	})
	out := dto.GenerateOutput{
		Generated: make([]dto.GeneratedFile, 0, len(report.Generated)),
		Skipped:   make([]dto.SkippedRecord, 0, len(report.Skipped)),
	}
	for _, g := range report.Generated {
		out.Generated = append(out.Generated, dto.GeneratedFile{Student: g.Student.SafeName(), Class: g.Student.SafeClass(), Path: g.Path})
	}
	for _, s := range report.Skipped {
		out.Skipped = append(out.Skipped, dto.SkippedRecord{Student: s.Student.SafeName(), Reason: s.Reason})
	}
	return out, err
}

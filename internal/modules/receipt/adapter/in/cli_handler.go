package in

import (
	"context"

	"siapkit/internal/modules/receipt/dto"
	receiptin "siapkit/internal/modules/receipt/port/in"
)

type CLIHandler struct {
	usecase receiptin.Usecase
}

func NewCLIHandler(usecase receiptin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Generate(ctx context.Context, input, template, outputDir, overlay string) (dto.GenerateOutput, error) {
	return h.usecase.Generate(ctx, dto.GenerateInput{Input: input, Template: template, OutputDir: outputDir, Overlay: overlay})
}

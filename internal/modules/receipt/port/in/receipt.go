package in

import (
	"context"

	"siapkit/internal/modules/receipt/dto"
)

type Usecase interface {
	Generate(ctx context.Context, input dto.GenerateInput) (dto.GenerateOutput, error)
}

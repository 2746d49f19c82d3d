package out

import (
	"context"

	"siapkit/internal/modules/receipt/domain"
)

type DatasetLoader interface {
	Load(ctx context.Context, path string) ([]domain.Student, error)
}

type TemplateInspector interface {
	PageSize(ctx context.Context, path string) (domain.PageSize, error)
}

type OverlayRenderer interface {
	Render(ctx context.Context, path string, size domain.PageSize, placements []domain.Placement) error
}

// TemplateMerger writes the template's first page with the overlay stamped on top.
type TemplateMerger interface {
	Merge(ctx context.Context, templatePath, overlayPath, outputPath string) error
}

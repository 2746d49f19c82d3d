package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"siapkit/internal/modules/receipt/domain"
	receiptout "siapkit/internal/modules/receipt/port/out"
	apperrors "siapkit/internal/platform/errors"
)

const DefaultOverlayName = "temp.pdf"

type Request struct {
	Input     string
	Template  string
	OutputDir string
	// Overlay is the scratch file reused for every record; defaults to
	// temp.pdf inside OutputDir.
	Overlay string
}

type Generated struct {
	Student domain.Student
	Path    string
}

type Skipped struct {
	Student domain.Student
	Reason  string
}

type Report struct {
	Generated []Generated
	Skipped   []Skipped
}

type ReceiptService struct {
	loaders   map[string]receiptout.DatasetLoader
	inspector receiptout.TemplateInspector
	renderer  receiptout.OverlayRenderer
	merger    receiptout.TemplateMerger
	logger    *zap.Logger
}

// NewReceiptService takes dataset loaders keyed by lower-case file extension.
func NewReceiptService(
	loaders map[string]receiptout.DatasetLoader,
	inspector receiptout.TemplateInspector,
	renderer receiptout.OverlayRenderer,
	merger receiptout.TemplateMerger,
	logger *zap.Logger,
) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{
		loaders:   loaders,
		inspector: inspector,
		renderer:  renderer,
		merger:    merger,
		logger:    logger,
	}
}

// Generate writes one receipt per dataset record, sequentially. The overlay
// scratch file is removed when Generate returns.
func (s *ReceiptService) Generate(ctx context.Context, req Request) (Report, error) {
	students, err := s.load(ctx, req.Input)
	if err != nil {
		return Report{}, err
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("create output dir: %w", err)
	}
	overlay := req.Overlay
	if overlay == "" {
		overlay = DefaultOverlayName
	}
	if !filepath.IsAbs(overlay) && filepath.Dir(overlay) == "." {
		overlay = filepath.Join(req.OutputDir, overlay)
	}
	defer func() {
		if rmErr := os.Remove(overlay); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.logger.Warn("remove overlay", zap.String("path", overlay), zap.Error(rmErr))
		}
	}()

	report := Report{}
	for _, student := range students {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, statErr := os.Stat(req.Template); statErr != nil {
			s.logger.Error("template not found", zap.String("template", req.Template), zap.String("student", student.SafeName()))
			report.Skipped = append(report.Skipped, Skipped{Student: student, Reason: fmt.Sprintf("template not found: %s", req.Template)})
			continue
		}
		path := filepath.Join(req.OutputDir, student.OutputName())
		if err := s.generateOne(ctx, student, req.Template, overlay, path); err != nil {
			return report, err
		}
		s.logger.Info("receipt written", zap.String("student", student.SafeName()), zap.String("path", path))
		report.Generated = append(report.Generated, Generated{Student: student, Path: path})
	}
	return report, nil
}

func (s *ReceiptService) load(ctx context.Context, input string) ([]domain.Student, error) {
	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("dataset %s: %w", input, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("stat dataset %s: %w", input, err)
	}
	loader, ok := s.loaders[extension(input)]
	if !ok {
		return nil, fmt.Errorf("dataset %s: unsupported format: %w", input, apperrors.ErrInvalidInput)
	}
	students, err := loader.Load(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", input, err)
	}
	s.logger.Info("dataset loaded", zap.String("path", input), zap.Int("records", len(students)))
	return students, nil
}

func (s *ReceiptService) generateOne(ctx context.Context, student domain.Student, template, overlay, output string) error {
	size, err := s.inspector.PageSize(ctx, template)
	if err != nil {
		s.logger.Warn("template page size unreadable, using A4", zap.String("template", template), zap.Error(err))
		size = domain.A4
	}
	if err := s.renderer.Render(ctx, overlay, size, student.Placements()); err != nil {
		return fmt.Errorf("render overlay for %s: %w", student.SafeName(), err)
	}
	if err := s.merger.Merge(ctx, template, overlay, output); err != nil {
		return fmt.Errorf("merge receipt %s: %w", output, err)
	}
	return nil
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

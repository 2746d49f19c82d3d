package out

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	receiptout "siapkit/internal/modules/receipt/port/out"
)

// overlayStamp places the overlay page unscaled at the bottom-left corner so
// its coordinates line up with the template's.
const overlayStamp = "pos:bl, scale:1 abs, rot:0"

type PDFCPUMerger struct {
	conf *model.Configuration
}

func NewPDFCPUMerger() receiptout.TemplateMerger {
	api.DisableConfigDir()
	return PDFCPUMerger{conf: model.NewDefaultConfiguration()}
}

func (m PDFCPUMerger) Merge(_ context.Context, templatePath, overlayPath, outputPath string) error {
	if err := api.TrimFile(templatePath, outputPath, []string{"1"}, m.conf); err != nil {
		return fmt.Errorf("copy template page: %w", err)
	}
	wm, err := api.PDFWatermark(overlayPath, overlayStamp, true, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("prepare overlay stamp: %w", err)
	}
	if err := api.AddWatermarksFile(outputPath, "", nil, wm, m.conf); err != nil {
		return fmt.Errorf("stamp overlay: %w", err)
	}
	return nil
}

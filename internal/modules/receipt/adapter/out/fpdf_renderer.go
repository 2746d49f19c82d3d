package out

import (
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"siapkit/internal/modules/receipt/domain"
	receiptout "siapkit/internal/modules/receipt/port/out"
)

type FPDFRenderer struct{}

// NewFPDFRenderer draws overlays with the Times core font, translating text
// to cp1252 so Portuguese accents survive.
func NewFPDFRenderer() receiptout.OverlayRenderer {
	return FPDFRenderer{}
}

func (FPDFRenderer) Render(_ context.Context, path string, size domain.PageSize, placements []domain.Placement) error {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.AddPage()
	doc.SetFont(domain.FontFamily, "", domain.FontSize)
	translate := doc.UnicodeTranslatorFromDescriptor("")
	for _, p := range placements {
		if p.Text == "" {
			continue
		}
		// fpdf measures y from the top edge.
		doc.Text(p.X, size.Height-p.Y, translate(p.Text))
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write overlay %s: %w", path, err)
	}
	return nil
}

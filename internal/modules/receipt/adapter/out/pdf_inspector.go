package out

import (
	"context"
	"fmt"
	"os"

	"rsc.io/pdf"

	"siapkit/internal/modules/receipt/domain"
	receiptout "siapkit/internal/modules/receipt/port/out"
)

type PDFInspector struct{}

func NewPDFInspector() receiptout.TemplateInspector {
	return PDFInspector{}
}

// PageSize reads the MediaBox of the first page, following inherited values
// up the page tree.
func (PDFInspector) PageSize(_ context.Context, path string) (size domain.PageSize, err error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.PageSize{}, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return domain.PageSize{}, fmt.Errorf("stat template: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			size, err = domain.PageSize{}, fmt.Errorf("parse template: %v", r)
		}
	}()

	doc, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return domain.PageSize{}, fmt.Errorf("parse template: %w", err)
	}
	if doc.NumPage() == 0 {
		return domain.PageSize{}, fmt.Errorf("template %s has no pages", path)
	}
	for v := doc.Page(1).V; v.Kind() == pdf.Dict; v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() != pdf.Array || box.Len() != 4 {
			continue
		}
		width := box.Index(2).Float64() - box.Index(0).Float64()
		height := box.Index(3).Float64() - box.Index(1).Float64()
		if width <= 0 || height <= 0 {
			return domain.PageSize{}, fmt.Errorf("template %s has an empty media box", path)
		}
		return domain.PageSize{Width: width, Height: height}, nil
	}
	return domain.PageSize{}, fmt.Errorf("template %s has no media box", path)
}

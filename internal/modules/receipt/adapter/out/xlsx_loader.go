package out

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"siapkit/internal/modules/receipt/domain"
	receiptout "siapkit/internal/modules/receipt/port/out"
)

type XLSXLoader struct{}

// NewXLSXLoader reads the first worksheet of a workbook.
func NewXLSXLoader() receiptout.DatasetLoader {
	return XLSXLoader{}
}

func (XLSXLoader) Load(_ context.Context, path string) ([]domain.Student, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return studentsFromRows(rows), nil
}

package out

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"siapkit/internal/modules/receipt/domain"
	receiptout "siapkit/internal/modules/receipt/port/out"
	apperrors "siapkit/internal/platform/errors"
)

type CSVLoader struct {
	encoding string
}

// NewCSVLoader reads comma or semicolon separated datasets. encoding is
// "utf-8" (default) or "windows-1252".
func NewCSVLoader(encoding string) receiptout.DatasetLoader {
	return CSVLoader{encoding: encoding}
}

func (l CSVLoader) Load(_ context.Context, path string) ([]domain.Student, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r, err := decoder(f, l.encoding)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = sniffDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return studentsFromRows(rows), nil
}

func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1252", "cp1252", "latin1", "iso-8859-1":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("dataset encoding %q: %w", encoding, apperrors.ErrInvalidInput)
	}
}

// sniffDelimiter picks ';' when the header line has more semicolons than commas.
func sniffDelimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

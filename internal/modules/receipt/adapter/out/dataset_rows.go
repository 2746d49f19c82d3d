package out

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"siapkit/internal/modules/receipt/domain"
)

const utf8BOM = "\ufeff"

// studentsFromRows treats the first row as the header. Headers are matched
// after NFC normalization so "Endereço" matches whichever way it was encoded.
func studentsFromRows(rows [][]string) []domain.Student {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		header[i] = norm.NFC.String(strings.TrimSpace(name))
	}
	students := make([]domain.Student, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		values := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" || i >= len(row) {
				continue
			}
			values[name] = norm.NFC.String(row[i])
		}
		students = append(students, domain.StudentFromRow(values))
	}
	return students
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

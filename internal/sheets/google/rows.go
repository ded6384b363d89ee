package google

import (
	"fmt"
	"strings"

	"dompetku/internal/core"
	"dompetku/internal/period"
)

const timestampLayout = "2006-01-02 15:04:05"

var headers = []string{"ID", "Timestamp", "Type", "Amount", "Description", "Category", "Period"}

func headerRow() []any {
	out := make([]any, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}

// rowValues renders a record in sheet column order.
func rowValues(tx core.Transaction, p core.Period) []any {
	return []any{
		tx.ID,
		tx.Timestamp.Format(timestampLayout),
		tx.Type.String(),
		tx.Amount.Units,
		tx.Description,
		tx.Category,
		period.Token(p.Start),
	}
}

// findRow returns the 1-based sheet row whose first cell equals id, or 0.
func findRow(values [][]any, id string) int {
	if id == "" {
		return 0
	}
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1
		}
	}
	return 0
}

// quoteSheet quotes a sheet name for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func rowRange(sheet string, row int) string {
	last := string(rune('A' + len(headers) - 1))
	return fmt.Sprintf("%s!A%d:%s%d", quoteSheet(sheet), row, last, row)
}

func columnRange(sheet, col string) string {
	return fmt.Sprintf("%s!%s:%s", quoteSheet(sheet), col, col)
}

package database

import (
	"strings"

	"golang.org/x/text/cases"
)

// FilterByName keeps the rows whose name contains term under Unicode case
// folding. Matching happens here rather than in SQL: SQLite's LOWER only
// folds ASCII, and the term is a literal, never a LIKE pattern.
func FilterByName[T any](rows []T, term string, name func(T) string) []T {
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(fold.String(name(row)), needle) {
			out = append(out, row)
		}
	}
	return out
}

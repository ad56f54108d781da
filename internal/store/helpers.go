package store

import "strings"

// inQuery appends a parenthesized placeholder list for ids to prefix and
// returns the query plus bound args. Callers must handle len(ids) == 0
// themselves.
func inQuery(prefix string, ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return prefix + "(" + strings.Join(placeholders, ", ") + ")", args
}

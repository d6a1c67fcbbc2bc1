package repository

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jondawson917/snappycamper/internal/apperr"
)

// itoa keeps placeholder construction readable in the repositories.
func itoa(n int) string { return strconv.Itoa(n) }

// BuildPartialUpdate turns a sparse field→value payload into a SET clause with
// 1-indexed positional placeholders and the matching bound values. Field names
// present in aliases are rewritten to their column name; anything else passes
// through as its own column. Field names only ever come from the fixed alias
// tables or the handlers' bind structs, never from free-form client text, so
// interpolating them into the statement is safe. Values are always bound
// parameters.
//
// Fields are emitted in sorted key order so the generated statement is stable.
// Placeholder numbering is contiguous starting at $1; callers appending a
// WHERE clause continue from $len(values)+1.
//
// An empty payload is rejected with a BadRequest error so that a vacuous
// update never reaches the store.
func BuildPartialUpdate(fields map[string]any, aliases map[string]string) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, apperr.BadRequest("no fields to update")
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cols := make([]string, 0, len(keys))
	values := make([]any, 0, len(keys))
	for i, k := range keys {
		col := k
		if alias, ok := aliases[k]; ok {
			col = alias
		}
		cols = append(cols, fmt.Sprintf("%s = $%d", col, i+1))
		values = append(values, fields[k])
	}
	return strings.Join(cols, ", "), values, nil
}

package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jondawson917/snappycamper/internal/apperr"
)

func TestBuildPartialUpdateAliases(t *testing.T) {
	setClause, values, err := BuildPartialUpdate(
		map[string]any{"fullName": "Tom Harrison", "isAdmin": true, "state": "CA"},
		map[string]string{"fullName": "full_name", "isAdmin": "is_admin"},
	)
	require.NoError(t, err)
	// Sorted field keys: fullName, isAdmin, state.
	assert.Equal(t, "full_name = $1, is_admin = $2, state = $3", setClause)
	assert.Equal(t, []any{"Tom Harrison", true, "CA"}, values)
}

func TestBuildPartialUpdatePassthrough(t *testing.T) {
	// Fields absent from the alias table keep their own name.
	setClause, values, err := BuildPartialUpdate(
		map[string]any{"cost": 12.5},
		map[string]string{"parkName": "park_name"},
	)
	require.NoError(t, err)
	assert.Equal(t, "cost = $1", setClause)
	assert.Equal(t, []any{12.5}, values)
}

func TestBuildPartialUpdatePlaceholderInvariants(t *testing.T) {
	// One fragment per field, placeholders contiguous from $1, values in
	// fragment order — for payloads of every size.
	for n := 1; n <= 8; n++ {
		fields := make(map[string]any, n)
		for i := 0; i < n; i++ {
			fields[fmt.Sprintf("col%d", i)] = i
		}
		setClause, values, err := BuildPartialUpdate(fields, nil)
		require.NoError(t, err)

		frags := strings.Split(setClause, ", ")
		require.Len(t, frags, n)
		require.Len(t, values, n)
		for i, frag := range frags {
			assert.Equal(t, fmt.Sprintf("col%d = $%d", i, i+1), frag)
			assert.Equal(t, i, values[i], "bound values follow fragment order")
		}
	}
}

func TestBuildPartialUpdateEmpty(t *testing.T) {
	_, _, err := BuildPartialUpdate(map[string]any{}, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, _, err = BuildPartialUpdate(nil, map[string]string{"a": "b"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

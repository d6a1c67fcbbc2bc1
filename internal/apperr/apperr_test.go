package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfAndStatus(t *testing.T) {
	cases := []struct {
		err    error
		kind   Kind
		status int
	}{
		{Unauthorized("no token"), KindUnauthorized, http.StatusUnauthorized},
		{Forbidden("admin required"), KindForbidden, http.StatusForbidden},
		{NotFound("no camp: zion"), KindNotFound, http.StatusNotFound},
		{Conflict("already reserved"), KindConflict, http.StatusConflict},
		{BadRequest("no fields to update"), KindBadRequest, http.StatusBadRequest},
		{Internal("hashing failed"), KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, KindOf(tc.err))
		assert.Equal(t, tc.status, HTTPStatus(tc.err))
	}
}

func TestWrappedErrorsKeepTheirKind(t *testing.T) {
	err := fmt.Errorf("reserve: %w", Conflict("already reserved"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
	assert.True(t, errors.Is(err, Conflict("anything of the same kind")))
}

func TestUnknownErrorsAreInternal(t *testing.T) {
	err := errors.New("driver: bad connection")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jondawson917/snappycamper/internal/apperr"
)

func TestCampLifecycle(t *testing.T) {
	db := openTestDB(t)
	camps := NewCampRepo(db)
	facilities := NewFacilityRepo(db)
	ctx := context.Background()
	parkCode := "c" + randSuffix()[:5]
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), `DELETE FROM camps WHERE park_code = $1`, parkCode)
	})

	camp, err := camps.Create(ctx, parkCode, "Hoohah", 10, "http://c1.img")
	require.NoError(t, err)
	assert.NotZero(t, camp.ID)

	_, err = camps.Create(ctx, parkCode, "Hoohah Again", 15, "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Partial update touches only the provided columns.
	name := "Marshmallow"
	updated, err := camps.Update(ctx, parkCode, CampUpdate{ParkName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Marshmallow", updated.ParkName)
	assert.Equal(t, 10.0, updated.Cost)
	assert.Equal(t, "http://c1.img", updated.ImageURL)

	// At most one facility row per camp.
	f := Facility{ParkCode: parkCode, Toilets: true}
	_, err = facilities.Create(ctx, f)
	require.NoError(t, err)
	_, err = facilities.Create(ctx, f)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// A facility for a camp that does not exist reports the missing camp.
	_, err = facilities.Create(ctx, Facility{ParkCode: "z" + randSuffix()[:5]})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// Amenity filters join through the facility table.
	list, err := camps.FindAll(ctx, CampFilter{Toilets: true})
	require.NoError(t, err)
	found := false
	for _, c := range list {
		if c.ParkCode == parkCode {
			found = true
		}
	}
	assert.True(t, found, "camp with toilets should match the toilets filter")

	// Deleting the camp cascades to its facility row.
	require.NoError(t, camps.Delete(ctx, parkCode))
	_, err = facilities.Get(ctx, parkCode)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

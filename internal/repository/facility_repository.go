package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jondawson917/snappycamper/internal/apperr"
)

// Facility is the one-to-one amenity extension of a camp, keyed by park code.
// The primary key on park_code guarantees at most one row per camp.
type Facility struct {
	ParkCode           string `json:"parkCode"`
	CellPhoneReception bool   `json:"cellPhoneReception"`
	Toilets            bool   `json:"toilets"`
	BoatAccess         bool   `json:"boatAccess"`
	RVAccess           bool   `json:"rvAccess"`
	WheelchairAccess   bool   `json:"wheelchairAccess"`
}

// FacilityUpdate is a sparse update payload; nil fields are left untouched.
type FacilityUpdate struct {
	CellPhoneReception *bool `json:"cellPhoneReception"`
	Toilets            *bool `json:"toilets"`
	BoatAccess         *bool `json:"boatAccess"`
	RVAccess           *bool `json:"rvAccess"`
	WheelchairAccess   *bool `json:"wheelchairAccess"`
}

var facilityUpdateAliases = map[string]string{
	"cellPhoneReception": "cell_phone_reception",
	"boatAccess":         "boat_access",
	"rvAccess":           "rv_access",
	"wheelchairAccess":   "wheelchair_access",
}

type FacilityRepo struct{ DB *sql.DB }

func NewFacilityRepo(db *sql.DB) *FacilityRepo { return &FacilityRepo{DB: db} }

// Create inserts the facility row for a camp. A missing camp trips the
// foreign key and surfaces as NotFound; a second row for the same camp trips
// the primary key and surfaces as Conflict.
func (r *FacilityRepo) Create(ctx context.Context, f Facility) (Facility, error) {
	f.ParkCode = strings.ToLower(strings.TrimSpace(f.ParkCode))
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO facility (park_code, cell_phone_reception, toilets, boat_access, rv_access, wheelchair_access)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ParkCode, f.CellPhoneReception, f.Toilets, f.BoatAccess, f.RVAccess, f.WheelchairAccess)
	if err != nil {
		if isUniqueViolation(err) {
			return Facility{}, apperr.Conflict("duplicate facility for camp: " + f.ParkCode)
		}
		if isForeignKeyViolation(err) {
			return Facility{}, apperr.NotFound("no camp: " + f.ParkCode)
		}
		return Facility{}, err
	}
	return f, nil
}

// FindAll returns every facility row ordered by park code.
func (r *FacilityRepo) FindAll(ctx context.Context) ([]Facility, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT park_code, cell_phone_reception, toilets, boat_access, rv_access, wheelchair_access
		 FROM facility ORDER BY park_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Facility, 0)
	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ParkCode, &f.CellPhoneReception, &f.Toilets, &f.BoatAccess, &f.RVAccess, &f.WheelchairAccess); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Get returns the facility row for a camp.
func (r *FacilityRepo) Get(ctx context.Context, parkCode string) (Facility, error) {
	var f Facility
	err := r.DB.QueryRowContext(ctx,
		`SELECT park_code, cell_phone_reception, toilets, boat_access, rv_access, wheelchair_access
		 FROM facility WHERE park_code = $1`,
		parkCode).Scan(&f.ParkCode, &f.CellPhoneReception, &f.Toilets, &f.BoatAccess, &f.RVAccess, &f.WheelchairAccess)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Facility{}, apperr.NotFound("no facility for camp: " + parkCode)
		}
		return Facility{}, err
	}
	return f, nil
}

// Update applies a partial update to a camp's facility row.
func (r *FacilityRepo) Update(ctx context.Context, parkCode string, upd FacilityUpdate) (Facility, error) {
	fields := map[string]any{}
	if upd.CellPhoneReception != nil {
		fields["cellPhoneReception"] = *upd.CellPhoneReception
	}
	if upd.Toilets != nil {
		fields["toilets"] = *upd.Toilets
	}
	if upd.BoatAccess != nil {
		fields["boatAccess"] = *upd.BoatAccess
	}
	if upd.RVAccess != nil {
		fields["rvAccess"] = *upd.RVAccess
	}
	if upd.WheelchairAccess != nil {
		fields["wheelchairAccess"] = *upd.WheelchairAccess
	}
	setClause, values, err := BuildPartialUpdate(fields, facilityUpdateAliases)
	if err != nil {
		return Facility{}, err
	}
	values = append(values, parkCode)
	var f Facility
	err = r.DB.QueryRowContext(ctx,
		`UPDATE facility SET `+setClause+` WHERE park_code = $`+itoa(len(values))+
			` RETURNING park_code, cell_phone_reception, toilets, boat_access, rv_access, wheelchair_access`,
		values...).Scan(&f.ParkCode, &f.CellPhoneReception, &f.Toilets, &f.BoatAccess, &f.RVAccess, &f.WheelchairAccess)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Facility{}, apperr.NotFound("no facility for camp: " + parkCode)
		}
		return Facility{}, err
	}
	return f, nil
}

// Delete removes a camp's facility row.
func (r *FacilityRepo) Delete(ctx context.Context, parkCode string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM facility WHERE park_code = $1`, parkCode)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("no facility for camp: " + parkCode)
	}
	return nil
}

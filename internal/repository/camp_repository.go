package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jondawson917/snappycamper/internal/apperr"
)

// Camp mirrors the 'camps' table. ParkCode is the unique business key used in
// URLs; the numeric ID is the surrogate key reservations reference.
type Camp struct {
	ID       int64   `json:"id"`
	ParkCode string  `json:"parkCode"`
	ParkName string  `json:"parkName"`
	Cost     float64 `json:"cost"`
	ImageURL string  `json:"imageUrl"`
}

// CampGuest is a user holding a reservation on a camp, attached to camp
// detail responses.
type CampGuest struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// CampFilter narrows FindAll results. Amenity filters join through the
// facility table.
type CampFilter struct {
	MaxCost       *float64
	Toilets       bool
	CellReception bool
}

// CampUpdate is a sparse update payload; nil fields are left untouched.
type CampUpdate struct {
	ParkName *string  `json:"parkName"`
	Cost     *float64 `json:"cost"`
	ImageURL *string  `json:"imageUrl"`
}

var campUpdateAliases = map[string]string{
	"parkName": "park_name",
	"imageUrl": "image_url",
}

type CampRepo struct{ DB *sql.DB }

func NewCampRepo(db *sql.DB) *CampRepo { return &CampRepo{DB: db} }

// Create inserts a camp. Park codes are normalized to lower case to satisfy
// the schema check; a duplicate park code surfaces as Conflict.
func (r *CampRepo) Create(ctx context.Context, parkCode, parkName string, cost float64, imageURL string) (Camp, error) {
	parkCode = strings.ToLower(strings.TrimSpace(parkCode))
	c := Camp{ParkCode: parkCode, ParkName: parkName, Cost: cost, ImageURL: imageURL}
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO camps (park_code, park_name, cost, image_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		parkCode, parkName, cost, imageURL).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Camp{}, apperr.Conflict("duplicate camp: " + parkCode)
		}
		return Camp{}, err
	}
	return c, nil
}

// FindAll returns camps matching the filter, ordered by park name. Amenity
// filters are ANDed; each one adds a positional parameter so nothing from the
// query string is ever interpolated into the statement.
func (r *CampRepo) FindAll(ctx context.Context, f CampFilter) ([]Camp, error) {
	query := `SELECT c.id, c.park_code, c.park_name, c.cost, c.image_url FROM camps c`
	var where []string
	var args []any
	if f.Toilets || f.CellReception {
		query += ` JOIN facility f ON f.park_code = c.park_code`
	}
	if f.MaxCost != nil {
		args = append(args, *f.MaxCost)
		where = append(where, `c.cost <= $`+itoa(len(args)))
	}
	if f.Toilets {
		where = append(where, `f.toilets`)
	}
	if f.CellReception {
		where = append(where, `f.cell_phone_reception`)
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY c.park_name`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	camps := make([]Camp, 0)
	for rows.Next() {
		var c Camp
		var imageURL sql.NullString
		if err := rows.Scan(&c.ID, &c.ParkCode, &c.ParkName, &c.Cost, &imageURL); err != nil {
			return nil, err
		}
		c.ImageURL = imageURL.String
		camps = append(camps, c)
	}
	return camps, rows.Err()
}

// Get returns a camp and the users currently holding reservations on it.
func (r *CampRepo) Get(ctx context.Context, parkCode string) (Camp, []CampGuest, error) {
	var c Camp
	var imageURL sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, park_code, park_name, cost, image_url FROM camps WHERE park_code = $1`,
		parkCode).Scan(&c.ID, &c.ParkCode, &c.ParkName, &c.Cost, &imageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Camp{}, nil, apperr.NotFound("no camp: " + parkCode)
		}
		return Camp{}, nil, err
	}
	c.ImageURL = imageURL.String
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.id, u.username, u.full_name
		 FROM reservations r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.camp_id = $1
		 ORDER BY u.username`,
		c.ID)
	if err != nil {
		return Camp{}, nil, err
	}
	defer rows.Close()
	guests := make([]CampGuest, 0)
	for rows.Next() {
		var g CampGuest
		if err := rows.Scan(&g.UserID, &g.Username, &g.FullName); err != nil {
			return Camp{}, nil, err
		}
		guests = append(guests, g)
	}
	return c, guests, rows.Err()
}

// IDByParkCode resolves a park code to its surrogate key.
func (r *CampRepo) IDByParkCode(ctx context.Context, parkCode string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM camps WHERE park_code = $1`, parkCode).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("no camp: " + parkCode)
		}
		return 0, err
	}
	return id, nil
}

// Update applies a partial update to a camp addressed by park code.
func (r *CampRepo) Update(ctx context.Context, parkCode string, upd CampUpdate) (Camp, error) {
	fields := map[string]any{}
	if upd.ParkName != nil {
		fields["parkName"] = *upd.ParkName
	}
	if upd.Cost != nil {
		fields["cost"] = *upd.Cost
	}
	if upd.ImageURL != nil {
		fields["imageUrl"] = *upd.ImageURL
	}
	setClause, values, err := BuildPartialUpdate(fields, campUpdateAliases)
	if err != nil {
		return Camp{}, err
	}
	values = append(values, parkCode)
	var c Camp
	var imageURL sql.NullString
	err = r.DB.QueryRowContext(ctx,
		`UPDATE camps SET `+setClause+` WHERE park_code = $`+itoa(len(values))+
			` RETURNING id, park_code, park_name, cost, image_url`,
		values...).Scan(&c.ID, &c.ParkCode, &c.ParkName, &c.Cost, &imageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Camp{}, apperr.NotFound("no camp: " + parkCode)
		}
		return Camp{}, err
	}
	c.ImageURL = imageURL.String
	return c, nil
}

// Delete removes a camp; its facility row and reservations cascade.
func (r *CampRepo) Delete(ctx context.Context, parkCode string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM camps WHERE park_code = $1`, parkCode)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("no camp: " + parkCode)
	}
	return nil
}

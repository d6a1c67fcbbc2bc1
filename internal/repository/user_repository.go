package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jondawson917/snappycamper/internal/apperr"
	"github.com/jondawson917/snappycamper/internal/auth"
)

// User mirrors the 'users' table minus the password hash.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	State    string `json:"state"`
	IsAdmin  bool   `json:"isAdmin"`
}

// ReservedCamp is a camp held by a user, attached to user detail responses.
type ReservedCamp struct {
	CampID   int64  `json:"camp_id"`
	ParkCode string `json:"parkCode"`
	ParkName string `json:"parkName"`
}

// UserUpdate is a sparse update payload; nil fields are left untouched.
// Setting IsAdmin is gated by the handler layer (admin only).
type UserUpdate struct {
	FullName *string `json:"fullName"`
	State    *string `json:"state"`
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"isAdmin"`
}

// userUpdateAliases maps external field names to column names for the
// partial-update builder. The password is stored hashed, hence the rename.
var userUpdateAliases = map[string]string{
	"fullName": "full_name",
	"isAdmin":  "is_admin",
	"password": "password_hash",
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Register hashes the password and inserts the user. A duplicate username
// surfaces as a Conflict error via the unique constraint, never as a raw
// driver error.
func (r *UserRepo) Register(ctx context.Context, username, password, fullName, state string, isAdmin bool, cost int) (User, error) {
	username = strings.TrimSpace(username)
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return User{}, err
	}
	u := User{Username: username, FullName: fullName, State: state, IsAdmin: isAdmin}
	err = r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, full_name, state, is_admin)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		username, hash, fullName, state, isAdmin).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, apperr.Conflict("username already taken: " + username)
		}
		return User{}, err
	}
	return u, nil
}

// Authenticate verifies a username/password pair. Both an unknown username and
// a wrong password report the same Unauthorized error so the response does not
// reveal which part was wrong.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (User, error) {
	var u User
	var hash string
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, full_name, state, is_admin
		 FROM users WHERE username = $1`,
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &hash, &u.FullName, &u.State, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.Unauthorized("invalid username/password")
		}
		return User{}, err
	}
	if !auth.VerifyPassword(hash, password) {
		return User{}, apperr.Unauthorized("invalid username/password")
	}
	return u, nil
}

// List returns all users ordered by username.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, username, full_name, state, is_admin FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &u.State, &u.IsAdmin); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByUsername returns a user and the camps they have reserved.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (User, []ReservedCamp, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, full_name, state, is_admin FROM users WHERE username = $1`,
		username).Scan(&u.ID, &u.Username, &u.FullName, &u.State, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, nil, apperr.NotFound("no user: " + username)
		}
		return User{}, nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.camp_id, c.park_code, c.park_name
		 FROM reservations r
		 JOIN camps c ON c.id = r.camp_id
		 WHERE r.user_id = $1
		 ORDER BY c.park_code`,
		u.ID)
	if err != nil {
		return User{}, nil, err
	}
	defer rows.Close()
	camps := make([]ReservedCamp, 0)
	for rows.Next() {
		var rc ReservedCamp
		if err := rows.Scan(&rc.CampID, &rc.ParkCode, &rc.ParkName); err != nil {
			return User{}, nil, err
		}
		camps = append(camps, rc)
	}
	return u, camps, rows.Err()
}

// IDByUsername resolves a username to its surrogate key.
func (r *UserRepo) IDByUsername(ctx context.Context, username string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM users WHERE username = $1`, username).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("no user: " + username)
		}
		return 0, err
	}
	return id, nil
}

// Update applies a partial update to a user. A new password is re-hashed
// before it reaches the builder; the plaintext is never bound into the
// statement. Returns NotFound when the username does not exist.
func (r *UserRepo) Update(ctx context.Context, username string, upd UserUpdate, cost int) (User, error) {
	fields := map[string]any{}
	if upd.FullName != nil {
		fields["fullName"] = *upd.FullName
	}
	if upd.State != nil {
		fields["state"] = *upd.State
	}
	if upd.IsAdmin != nil {
		fields["isAdmin"] = *upd.IsAdmin
	}
	if upd.Password != nil {
		hash, err := auth.HashPassword(*upd.Password, cost)
		if err != nil {
			return User{}, err
		}
		fields["password"] = hash
	}
	setClause, values, err := BuildPartialUpdate(fields, userUpdateAliases)
	if err != nil {
		return User{}, err
	}
	values = append(values, username)
	var u User
	err = r.DB.QueryRowContext(ctx,
		`UPDATE users SET `+setClause+` WHERE username = $`+itoa(len(values))+
			` RETURNING id, username, full_name, state, is_admin`,
		values...).Scan(&u.ID, &u.Username, &u.FullName, &u.State, &u.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, apperr.NotFound("no user: " + username)
		}
		return User{}, err
	}
	return u, nil
}

// Delete removes a user; reservations cascade at the schema level.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("no user: " + username)
	}
	return nil
}

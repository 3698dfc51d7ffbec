package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email is already taken")
	ErrSlotTaken  = errors.New("house is already taken")
)

// Store is the credential store. Email and slot uniqueness are backed by
// database unique constraints; Create surfaces a losing concurrent insert
// as ErrEmailTaken/ErrSlotTaken rather than a generic failure.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindBySlot(ctx context.Context, wing string, houseNumber int) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) (*User, error)
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const userColumns = `id, email, password_hash, wing, house_number, admin`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.House.Wing, &u.House.HouseNumber, &u.Admin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *Repository) FindBySlot(ctx context.Context, wing string, houseNumber int) (*User, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE wing = $1 AND house_number = $2`, wing, houseNumber)
	return scanUser(row)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	// A malformed id can never match a row; skip the round trip instead of
	// letting the uuid cast error out.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	row := r.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1::uuid`, id)
	return scanUser(row)
}

func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	row := r.Pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, wing, house_number, admin)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING `+userColumns,
		u.Email, u.PasswordHash, u.House.Wing, u.House.HouseNumber, u.Admin)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_email_key" {
				return nil, ErrEmailTaken
			}
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return created, nil
}

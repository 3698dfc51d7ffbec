package houses

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("house not found")
	ErrExists   = errors.New("house already exists for user")
)

// Store is the residency store. The one-house-per-user rule is backed by a
// unique constraint on user_id; Create reports a losing concurrent insert
// as ErrExists.
type Store interface {
	Create(ctx context.Context, h *House) (*House, error)
	FindByUser(ctx context.Context, userID string) (*House, error)
	FindByOwnerSlot(ctx context.Context, userID, wing string, houseNumber int) (*House, error)
	Update(ctx context.Context, h *House) error
	Delete(ctx context.Context, userID, wing string, houseNumber int) error
	ListAll(ctx context.Context) ([]House, error)
	RegistrationTaken(ctx context.Context, registration, excludeHouseID string) (bool, error)
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const houseColumns = `id, user_id, wing, house_number, name, contact_number, vehicles,
	ladies, gents, boys, girls, total_family_members, currently_living`

func scanHouse(row pgx.Row) (*House, error) {
	var h House
	var vehiclesJSON []byte
	err := row.Scan(&h.ID, &h.UserID, &h.Slot.Wing, &h.Slot.HouseNumber,
		&h.Name, &h.ContactNumber, &vehiclesJSON,
		&h.FamilyDetails.Ladies, &h.FamilyDetails.Gents,
		&h.FamilyDetails.Boys, &h.FamilyDetails.Girls,
		&h.FamilyDetails.TotalFamilyMembers, &h.CurrentlyLiving)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	h.Vehicles = []Vehicle{}
	if len(vehiclesJSON) > 0 {
		if err := json.Unmarshal(vehiclesJSON, &h.Vehicles); err != nil {
			return nil, err
		}
	}
	return &h, nil
}

func (r *Repository) Create(ctx context.Context, h *House) (*House, error) {
	vehiclesJSON, err := json.Marshal(h.Vehicles)
	if err != nil {
		return nil, err
	}

	row := r.Pool.QueryRow(ctx,
		`INSERT INTO houses (user_id, wing, house_number, name, contact_number, vehicles,
		                     ladies, gents, boys, girls, total_family_members, currently_living)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
         RETURNING `+houseColumns,
		h.UserID, h.Slot.Wing, h.Slot.HouseNumber, h.Name, h.ContactNumber, vehiclesJSON,
		h.FamilyDetails.Ladies, h.FamilyDetails.Gents, h.FamilyDetails.Boys,
		h.FamilyDetails.Girls, h.FamilyDetails.TotalFamilyMembers, h.CurrentlyLiving)

	created, err := scanHouse(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrExists
		}
		return nil, err
	}
	return created, nil
}

func (r *Repository) FindByUser(ctx context.Context, userID string) (*House, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+houseColumns+` FROM houses WHERE user_id = $1::uuid`, userID)
	return scanHouse(row)
}

func (r *Repository) FindByOwnerSlot(ctx context.Context, userID, wing string, houseNumber int) (*House, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+houseColumns+` FROM houses
         WHERE user_id = $1::uuid AND wing = $2 AND house_number = $3`,
		userID, wing, houseNumber)
	return scanHouse(row)
}

func (r *Repository) Update(ctx context.Context, h *House) error {
	vehiclesJSON, err := json.Marshal(h.Vehicles)
	if err != nil {
		return err
	}

	tag, err := r.Pool.Exec(ctx,
		`UPDATE houses
         SET name = $2, contact_number = $3, vehicles = $4,
             ladies = $5, gents = $6, boys = $7, girls = $8,
             total_family_members = $9, currently_living = $10,
             updated_at = now()
         WHERE id = $1::uuid`,
		h.ID, h.Name, h.ContactNumber, vehiclesJSON,
		h.FamilyDetails.Ladies, h.FamilyDetails.Gents, h.FamilyDetails.Boys,
		h.FamilyDetails.Girls, h.FamilyDetails.TotalFamilyMembers, h.CurrentlyLiving)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, userID, wing string, houseNumber int) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM houses
         WHERE user_id = $1::uuid AND wing = $2 AND house_number = $3`,
		userID, wing, houseNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListAll(ctx context.Context) ([]House, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+houseColumns+` FROM houses ORDER BY wing, house_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]House, 0)
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

// RegistrationTaken reports whether any other house already lists the
// registration number among its vehicles.
func (r *Repository) RegistrationTaken(ctx context.Context, registration, excludeHouseID string) (bool, error) {
	var taken bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (
           SELECT 1 FROM houses h, jsonb_array_elements(h.vehicles) v
           WHERE v->>'vehicleRegistrationNumber' = $1
             AND ($2 = '' OR h.id::text <> $2)
         )`,
		registration, excludeHouseID).Scan(&taken)
	if err != nil {
		return false, err
	}
	return taken, nil
}

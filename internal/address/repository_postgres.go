package address

import (
	"database/sql"
)

// PostgresRepository stores addresses in a dedicated table with a foreign
// key to users. Every statement is scoped by user_id so one user can never
// touch another user's rows.
type PostgresRepository struct {
	db *sql.DB
}

const (
	selectAddressColumns = `id, user_id, label, details, phone, created_at, updated_at`

	insertAddressQuery = `
		INSERT INTO addresses (user_id, label, details, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$5)
		RETURNING id, user_id, label, details, phone, created_at, updated_at
	`
	updateAddressQuery = `
		UPDATE addresses
		SET label=$3, details=$4, phone=$5, updated_at=$6
		WHERE user_id=$1 AND id=$2
		RETURNING id, user_id, label, details, phone, created_at, updated_at
	`
	deleteAddressQuery = `DELETE FROM addresses WHERE user_id=$1 AND id=$2`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(userID int) ([]Address, error) {
	rows, err := r.db.Query(`SELECT `+selectAddressColumns+` FROM addresses WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Label, &a.Details, &a.Phone, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(a Address) (Address, error) {
	err := r.db.QueryRow(insertAddressQuery, a.UserID, a.Label, a.Details, a.Phone, a.CreatedAt).
		Scan(&a.ID, &a.UserID, &a.Label, &a.Details, &a.Phone, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) Update(userID, addressID int, update Address) (Address, error) {
	var a Address
	err := r.db.QueryRow(updateAddressQuery, userID, addressID, update.Label, update.Details, update.Phone, update.UpdatedAt).
		Scan(&a.ID, &a.UserID, &a.Label, &a.Details, &a.Phone, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Address{}, ErrNotFound
		}
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) Delete(userID, addressID int) error {
	res, err := r.db.Exec(deleteAddressQuery, userID, addressID)
	if err != nil {
		return err
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if cnt == 0 {
		return ErrNotFound
	}
	return nil
}

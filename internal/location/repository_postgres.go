package location

import (
	"database/sql"
)

// Repository provides access to branch locations.
type Repository interface {
	List(limit int) ([]Location, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns branch rows. An unprovisioned table yields an empty slice so
// the contact page still renders.
func (r *PostgresRepository) List(limit int) ([]Location, error) {
	rows, err := r.db.Query(`SELECT id, name, address, phone, hours FROM locations ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return []Location{}, nil
	}
	defer rows.Close()

	out := make([]Location, 0)
	for rows.Next() {
		var (
			l     Location
			phone sql.NullString
			hours sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &phone, &hours); err != nil {
			continue
		}
		if phone.Valid {
			l.Phone = &phone.String
		}
		if hours.Valid {
			l.Hours = &hours.String
		}
		out = append(out, l)
	}
	return out, nil
}

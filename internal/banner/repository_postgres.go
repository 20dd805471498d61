package banner

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns banner rows ordered by sort_order then id. An unprovisioned
// table yields an empty slice; the storefront renders its fallback art.
func (r *PostgresRepository) List(limit int) ([]Banner, error) {
	rows, err := r.db.Query(`SELECT id, image_url, link, alt FROM banners ORDER BY COALESCE(sort_order, 0) DESC, id LIMIT $1`, limit)
	if err != nil {
		return []Banner{}, nil
	}
	defer rows.Close()

	out := make([]Banner, 0)
	for rows.Next() {
		var (
			b    Banner
			img  sql.NullString
			link sql.NullString
			alt  sql.NullString
		)
		if err := rows.Scan(&b.ID, &img, &link, &alt); err != nil {
			continue
		}
		if img.Valid {
			b.ImageURL = &img.String
		}
		if link.Valid {
			b.Link = &link.String
		}
		if alt.Valid {
			b.Alt = &alt.String
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *PostgresRepository) Create(b Banner) (Banner, error) {
	err := r.db.QueryRow(
		`INSERT INTO banners (image_url, link, alt) VALUES ($1, $2, $3) RETURNING id`,
		b.ImageURL, b.Link, b.Alt,
	).Scan(&b.ID)
	if err != nil {
		return Banner{}, err
	}
	return b, nil
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

package featured

import (
	"database/sql"
)

// Repository provides access to the featured rail.
type Repository interface {
	List(limit, offset int) ([]Item, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns available menu items ordered by featured score. Items with no
// score sort last; an unprovisioned table yields an empty rail.
func (r *PostgresRepository) List(limit, offset int) ([]Item, error) {
	rows, err := r.db.Query(
		`SELECT id, name, price::text, image, featured_score
		 FROM menu_items
		 WHERE available
		 ORDER BY COALESCE(featured_score, 0) DESC, id
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return []Item{}, nil
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		var (
			it    Item
			price string
			img   sql.NullString
			score sql.NullInt64
		)
		if err := rows.Scan(&it.MenuItemID, &it.Name, &price, &img, &score); err != nil {
			continue
		}
		if img.Valid {
			it.ImageURL = &img.String
		}
		if score.Valid {
			v := int(score.Int64)
			it.Score = &v
		}
		if err := it.Price.Scan(price); err != nil {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

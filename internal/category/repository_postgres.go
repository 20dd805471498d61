package category

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns category rows ordered by sort_order then id. If the table is
// not provisioned yet the storefront still gets an empty slice.
func (r *PostgresRepository) List(limit int) ([]Category, error) {
	rows, err := r.db.Query(`SELECT id, name, description, sort_order FROM categories ORDER BY sort_order DESC, id LIMIT $1`, limit)
	if err != nil {
		return []Category{}, nil
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var (
			c    Category
			desc sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &desc, &c.SortOrder); err != nil {
			continue
		}
		if desc.Valid {
			c.Description = &desc.String
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *PostgresRepository) Create(c Category) (Category, error) {
	err := r.db.QueryRow(
		`INSERT INTO categories (name, description, sort_order) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.Description, c.SortOrder,
	).Scan(&c.ID)
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Update(id int, c Category) (Category, error) {
	result, err := r.db.Exec(
		`UPDATE categories SET name = $1, description = $2, sort_order = $3 WHERE id = $4`,
		c.Name, c.Description, c.SortOrder, id,
	)
	if err != nil {
		return Category{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Category{}, err
	}
	if affected == 0 {
		return Category{}, ErrNotFound
	}
	c.ID = id
	return c, nil
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
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

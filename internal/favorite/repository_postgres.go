package favorite

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	favoriteIDsQuery = `SELECT COALESCE(array_agg(menu_item_id ORDER BY id), ARRAY[]::integer[]) FROM favorites WHERE user_id = $1`

	listFavoritesQuery = `
		SELECT m.id, m.name, m.price::text, m.image, m.available
		FROM menu_items m
		WHERE m.id = ANY($1::int[])
		ORDER BY array_position($1::int[], m.id)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(userID, menuItemID int) ([]int, error) {
	res, err := r.db.Exec(
		`INSERT INTO favorites (user_id, menu_item_id) VALUES ($1, $2) ON CONFLICT (user_id, menu_item_id) DO NOTHING`,
		userID, menuItemID,
	)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAlreadyFavorite
	}
	return r.ids(userID)
}

func (r *PostgresRepository) Remove(userID, menuItemID int) ([]int, error) {
	res, err := r.db.Exec(`DELETE FROM favorites WHERE user_id = $1 AND menu_item_id = $2`, userID, menuItemID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFavorite
	}
	return r.ids(userID)
}

func (r *PostgresRepository) ids(userID int) ([]int, error) {
	var arr pq.Int64Array
	if err := r.db.QueryRow(favoriteIDsQuery, userID).Scan(&arr); err != nil {
		return nil, err
	}
	out := make([]int, len(arr))
	for i, v := range arr {
		out[i] = int(v)
	}
	return out, nil
}

func (r *PostgresRepository) List(userID int) ([]Item, error) {
	ids, err := r.ids(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Item{}, nil
	}

	rows, err := r.db.Query(listFavoritesQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Item, 0, len(ids))
	for rows.Next() {
		var (
			it    Item
			price string
			img   sql.NullString
		)
		if err := rows.Scan(&it.MenuItemID, &it.Name, &price, &img, &it.Available); err != nil {
			return nil, err
		}
		if img.Valid {
			it.ImageURL = &img.String
		}
		if err := it.Price.Scan(price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

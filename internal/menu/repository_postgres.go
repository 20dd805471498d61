package menu

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	selectItemColumns = `id, name, description, price::text, category_id, available, image, created_at, updated_at`

	insertItemQuery = `
        INSERT INTO menu_items (name, description, price, category_id, available, image, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
        RETURNING ` + selectItemColumns

	updateItemQuery = `
        UPDATE menu_items
        SET name=$2, description=$3, price=$4, category_id=$5, available=$6, image=$7, updated_at=$8
        WHERE id=$1
        RETURNING ` + selectItemColumns
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanItem(row interface{ Scan(...interface{}) error }) (Item, error) {
	var (
		it       Item
		desc     sql.NullString
		price    string
		category sql.NullInt64
		image    sql.NullString
	)
	if err := row.Scan(&it.ID, &it.Name, &desc, &price, &category, &it.Available, &image, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return Item{}, err
	}
	if desc.Valid {
		it.Description = &desc.String
	}
	if category.Valid {
		v := int(category.Int64)
		it.CategoryID = &v
	}
	if image.Valid {
		it.Image = &image.String
	}
	if err := it.Price.Scan(price); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (r *PostgresRepository) List(categoryID *int) ([]Item, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if categoryID != nil {
		rows, err = r.db.Query(`SELECT `+selectItemColumns+` FROM menu_items WHERE category_id = $1 ORDER BY name, id`, *categoryID)
	} else {
		rows, err = r.db.Query(`SELECT ` + selectItemColumns + ` FROM menu_items ORDER BY name, id`)
	}
	if err != nil {
		// table may not exist yet — keep the storefront resilient
		return []Item{}, nil
	}
	defer rows.Close()

	out := make([]Item, 0)
	ids := make([]int, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
		ids = append(ids, it.ID)
	}
	if len(out) == 0 {
		return out, nil
	}

	variants, err := r.variantsForItems(ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Variants = variants[out[i].ID]
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(id int) (Item, error) {
	row := r.db.QueryRow(`SELECT `+selectItemColumns+` FROM menu_items WHERE id = $1`, id)
	it, err := scanItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	variants, err := r.variantsForItems([]int{id})
	if err != nil {
		return Item{}, err
	}
	it.Variants = variants[id]
	return it, nil
}

func (r *PostgresRepository) variantsForItems(ids []int) (map[int][]Variant, error) {
	rows, err := r.db.Query(`SELECT id, menu_item_id, name, surcharge::text FROM menu_item_variants WHERE menu_item_id = ANY($1::int[]) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return map[int][]Variant{}, nil
	}
	defer rows.Close()

	out := make(map[int][]Variant)
	for rows.Next() {
		var (
			v         Variant
			surcharge string
		)
		if err := rows.Scan(&v.ID, &v.ItemID, &v.Name, &surcharge); err != nil {
			return nil, err
		}
		if err := v.Surcharge.Scan(surcharge); err != nil {
			return nil, err
		}
		out[v.ItemID] = append(out[v.ItemID], v)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(it Item) (Item, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	row := r.db.QueryRow(insertItemQuery, it.Name, it.Description, it.Price.StringFixed(2), it.CategoryID, it.Available, it.Image, now)
	return scanItem(row)
}

func (r *PostgresRepository) Update(id int, it Item) (Item, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	row := r.db.QueryRow(updateItemQuery, id, it.Name, it.Description, it.Price.StringFixed(2), it.CategoryID, it.Available, it.Image, now)
	updated, err := scanItem(row)
	if err == sql.ErrNoRows {
		return Item{}, ErrNotFound
	}
	return updated, err
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetAvailability(id int, available bool) error {
	res, err := r.db.Exec(`UPDATE menu_items SET available = $2, updated_at = $3 WHERE id = $1`,
		id, available, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) AddVariant(v Variant) (Variant, error) {
	err := r.db.QueryRow(`INSERT INTO menu_item_variants (menu_item_id, name, surcharge) VALUES ($1,$2,$3) RETURNING id`,
		v.ItemID, v.Name, v.Surcharge.StringFixed(2)).Scan(&v.ID)
	if err != nil {
		return Variant{}, err
	}
	return v, nil
}

func (r *PostgresRepository) DeleteVariant(itemID, variantID int) error {
	res, err := r.db.Exec(`DELETE FROM menu_item_variants WHERE menu_item_id = $1 AND id = $2`, itemID, variantID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

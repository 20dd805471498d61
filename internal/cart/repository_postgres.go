package cart

import (
	"database/sql"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	upsertLineQuery = `
        INSERT INTO cart_lines (owner_key, menu_item_id, variant, variant_key, quantity, unit_price, instructions, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
        ON CONFLICT (owner_key, menu_item_id, variant_key)
        DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
        RETURNING id, quantity, unit_price::text, created_at, updated_at
    `
	listLinesQuery = `
        SELECT cl.id, cl.menu_item_id, COALESCE(m.name, ''), cl.variant, cl.quantity, cl.unit_price::text, cl.instructions, cl.created_at, cl.updated_at
        FROM cart_lines cl
        LEFT JOIN menu_items m ON m.id = cl.menu_item_id
        WHERE cl.owner_key = $1
        ORDER BY cl.id
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert relies on the unique index over (owner_key, menu_item_id,
// variant_key): a concurrent add from a second tab lands on the same row and
// increments quantity instead of duplicating it. The stored unit_price is
// left untouched on conflict (first write wins).
func (r *PostgresRepository) Upsert(line Line) (Line, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	var price string
	err := r.db.QueryRow(upsertLineQuery,
		line.OwnerKey, line.MenuItemID, line.Variant, variantKey(line.Variant),
		line.Quantity, line.UnitPrice.StringFixed(2), line.Instructions, now,
	).Scan(&line.ID, &line.Quantity, &price, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return Line{}, err
	}
	if err := line.UnitPrice.Scan(price); err != nil {
		return Line{}, err
	}
	return line, nil
}

// List returns the owner's lines with item names joined in. A store that has
// not been provisioned yet yields an empty cart rather than an error.
func (r *PostgresRepository) List(ownerKey string) ([]Line, error) {
	rows, err := r.db.Query(listLinesQuery, ownerKey)
	if err != nil {
		return []Line{}, nil
	}
	defer rows.Close()

	out := make([]Line, 0)
	for rows.Next() {
		var (
			l       Line
			variant sql.NullString
			price   string
			instr   sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.MenuItemID, &l.ItemName, &variant, &l.Quantity, &price, &instr, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		if variant.Valid {
			l.Variant = &variant.String
		}
		if instr.Valid {
			l.Instructions = &instr.String
		}
		if err := l.UnitPrice.Scan(price); err != nil {
			return nil, err
		}
		l.OwnerKey = ownerKey
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) SetQuantity(ownerKey string, menuItemID int, variant *string, quantity int) (Line, error) {
	var (
		l     Line
		v     sql.NullString
		price string
		instr sql.NullString
	)
	err := r.db.QueryRow(`
        UPDATE cart_lines SET quantity = $4, updated_at = $5
        WHERE owner_key = $1 AND menu_item_id = $2 AND variant_key = $3
        RETURNING id, menu_item_id, variant, quantity, unit_price::text, instructions, created_at, updated_at`,
		ownerKey, menuItemID, variantKey(variant), quantity, time.Now().UTC().Format(time.RFC3339),
	).Scan(&l.ID, &l.MenuItemID, &v, &l.Quantity, &price, &instr, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Line{}, ErrLineNotFound
		}
		return Line{}, err
	}
	if v.Valid {
		l.Variant = &v.String
	}
	if instr.Valid {
		l.Instructions = &instr.String
	}
	if err := l.UnitPrice.Scan(price); err != nil {
		return Line{}, err
	}
	l.OwnerKey = ownerKey
	return l, nil
}

func (r *PostgresRepository) Remove(ownerKey string, menuItemID int, variant *string) error {
	res, err := r.db.Exec(`DELETE FROM cart_lines WHERE owner_key = $1 AND menu_item_id = $2 AND variant_key = $3`,
		ownerKey, menuItemID, variantKey(variant))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) RemoveByLineID(ownerKey string, lineID int) error {
	res, err := r.db.Exec(`DELETE FROM cart_lines WHERE owner_key = $1 AND id = $2`, ownerKey, lineID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) Clear(ownerKey string) error {
	_, err := r.db.Exec(`DELETE FROM cart_lines WHERE owner_key = $1`, ownerKey)
	return err
}

// Transfer runs the login-time re-owning inside one transaction: overlapping
// (item, variant) lines are merged into the user's line by summing
// quantities, the leftovers are re-keyed in place.
func (r *PostgresRepository) Transfer(fromKey, toKey string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	if _, err := tx.Exec(`
        UPDATE cart_lines dst
        SET quantity = dst.quantity + src.quantity, updated_at = $3
        FROM cart_lines src
        WHERE dst.owner_key = $2 AND src.owner_key = $1
          AND dst.menu_item_id = src.menu_item_id
          AND dst.variant_key = src.variant_key`,
		fromKey, toKey, now); err != nil {
		return err
	}

	if _, err := tx.Exec(`
        DELETE FROM cart_lines src
        WHERE src.owner_key = $1
          AND EXISTS (
            SELECT 1 FROM cart_lines dst
            WHERE dst.owner_key = $2
              AND dst.menu_item_id = src.menu_item_id
              AND dst.variant_key = src.variant_key)`,
		fromKey, toKey); err != nil {
		return err
	}

	if _, err := tx.Exec(`UPDATE cart_lines SET owner_key = $2, updated_at = $3 WHERE owner_key = $1`,
		fromKey, toKey, now); err != nil {
		return err
	}

	return tx.Commit()
}

package order

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	selectOrderColumns = `id, owner_key, user_id, total::text, status, order_type, scheduled_at, instructions, address_id, estimated_ready_at, created_at, updated_at`

	lockCartLinesQuery = `
        SELECT cl.id, cl.menu_item_id, cl.variant, cl.quantity, cl.unit_price::text, cl.instructions, m.id
        FROM cart_lines cl
        LEFT JOIN menu_items m ON m.id = cl.menu_item_id
        WHERE cl.owner_key = $1
        ORDER BY cl.id
        FOR UPDATE OF cl
    `

	insertOrderQuery = `
        INSERT INTO orders (owner_key, user_id, total, status, order_type, scheduled_at, instructions, address_id, idempotency_key, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
        RETURNING id, created_at, updated_at
    `

	insertOrderLineQuery = `
        INSERT INTO order_lines (order_id, menu_item_id, quantity, unit_price, variant, instructions)
        VALUES ($1,$2,$3,$4,$5,$6)
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateFromCart converts the owner's cart into an order in one transaction:
// the cart lines are locked and read (using their stored price snapshots,
// never the live catalog price), the order and its lines are written, and
// the cart is cleared. Any failure rolls the whole thing back.
func (r *PostgresRepository) CreateFromCart(ownerKey string, userID *int, draft Draft) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// a replayed idempotency key returns the order the first call created;
	// scoped by owner so one client cannot read another's order through a
	// guessed key
	if draft.IdempotencyKey != nil {
		existing, err := scanOrder(tx.QueryRow(`SELECT `+selectOrderColumns+` FROM orders WHERE idempotency_key = $1 AND owner_key = $2`, *draft.IdempotencyKey, ownerKey))
		if err == nil {
			return existing, tx.Commit()
		}
		if err != sql.ErrNoRows {
			return Order{}, err
		}
	}

	rows, err := tx.Query(lockCartLinesQuery, ownerKey)
	if err != nil {
		return Order{}, err
	}

	type snapshot struct {
		menuItemID   int
		variant      *string
		quantity     int
		unitPrice    decimal.Decimal
		instructions *string
	}
	snapshots := make([]snapshot, 0)
	for rows.Next() {
		var (
			lineID  int
			s       snapshot
			variant sql.NullString
			price   string
			instr   sql.NullString
			menuRef sql.NullInt64
		)
		if err := rows.Scan(&lineID, &s.menuItemID, &variant, &s.quantity, &price, &instr, &menuRef); err != nil {
			rows.Close()
			return Order{}, err
		}
		if !menuRef.Valid {
			rows.Close()
			return Order{}, ErrMenuItemGone
		}
		if variant.Valid {
			s.variant = &variant.String
		}
		if instr.Valid {
			s.instructions = &instr.String
		}
		if err := s.unitPrice.Scan(price); err != nil {
			rows.Close()
			return Order{}, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return Order{}, err
	}
	rows.Close()

	if len(snapshots) == 0 {
		return Order{}, ErrEmptyCart
	}

	total := decimal.Zero
	for _, s := range snapshots {
		total = total.Add(s.unitPrice.Mul(decimal.NewFromInt(int64(s.quantity))))
	}

	o := Order{
		OwnerKey:       ownerKey,
		UserID:         userID,
		Total:          total,
		Status:         StatusPending,
		Type:           draft.Type,
		ScheduledAt:    draft.ScheduledAt,
		Instructions:   draft.Instructions,
		AddressID:      draft.AddressID,
		IdempotencyKey: draft.IdempotencyKey,
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if err := tx.QueryRow(insertOrderQuery,
		ownerKey, userID, total.StringFixed(2), o.Status, o.Type,
		draft.ScheduledAt, draft.Instructions, draft.AddressID, draft.IdempotencyKey, now,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return Order{}, err
	}

	for _, s := range snapshots {
		if _, err := tx.Exec(insertOrderLineQuery,
			o.ID, s.menuItemID, s.quantity, s.unitPrice.StringFixed(2), s.variant, s.instructions); err != nil {
			return Order{}, err
		}
	}

	if _, err := tx.Exec(`DELETE FROM cart_lines WHERE owner_key = $1`, ownerKey); err != nil {
		return Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return o, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (Order, error) {
	var (
		o         Order
		userID    sql.NullInt64
		total     string
		scheduled sql.NullTime
		instr     sql.NullString
		addressID sql.NullInt64
		readyAt   sql.NullTime
	)
	if err := row.Scan(&o.ID, &o.OwnerKey, &userID, &total, &o.Status, &o.Type,
		&scheduled, &instr, &addressID, &readyAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return Order{}, err
	}
	if userID.Valid {
		v := int(userID.Int64)
		o.UserID = &v
	}
	if scheduled.Valid {
		t := scheduled.Time
		o.ScheduledAt = &t
	}
	if instr.Valid {
		o.Instructions = &instr.String
	}
	if addressID.Valid {
		v := int(addressID.Int64)
		o.AddressID = &v
	}
	if readyAt.Valid {
		t := readyAt.Time
		o.EstimatedReadyAt = &t
	}
	if err := o.Total.Scan(total); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, []Line, error) {
	o, err := scanOrder(r.db.QueryRow(`SELECT `+selectOrderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, nil, ErrNotFound
		}
		return Order{}, nil, err
	}

	rows, err := r.db.Query(`SELECT id, order_id, menu_item_id, quantity, unit_price::text, variant, instructions FROM order_lines WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return Order{}, nil, err
	}
	defer rows.Close()

	lines := make([]Line, 0)
	for rows.Next() {
		var (
			l       Line
			price   string
			variant sql.NullString
			instr   sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.OrderID, &l.MenuItemID, &l.Quantity, &price, &variant, &instr); err != nil {
			return Order{}, nil, err
		}
		if variant.Valid {
			l.Variant = &variant.String
		}
		if instr.Valid {
			l.Instructions = &instr.String
		}
		if err := l.UnitPrice.Scan(price); err != nil {
			return Order{}, nil, err
		}
		lines = append(lines, l)
	}
	return o, lines, rows.Err()
}

func (r *PostgresRepository) ListByOwner(ownerKey string) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+selectOrderColumns+` FROM orders WHERE owner_key = $1 ORDER BY created_at DESC`, ownerKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *PostgresRepository) ListAll(status *Status, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	var (
		rows *sql.Rows
		err  error
	)
	if status != nil {
		rows, err = r.db.Query(`SELECT `+selectOrderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, *status, limit, offset)
	} else {
		rows, err = r.db.Query(`SELECT `+selectOrderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]Order, error) {
	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus applies the transition only when the stored status still
// matches the one the caller validated against, so two concurrent admin
// updates cannot race past the state machine.
func (r *PostgresRepository) UpdateStatus(id int, from, to Status) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(`
        UPDATE orders SET status = $3, updated_at = $4
        WHERE id = $1 AND status = $2
        RETURNING `+selectOrderColumns,
		id, from, to, time.Now().UTC().Format(time.RFC3339)))
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, ErrInvalidTransition
		}
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) SetEstimatedReady(id int, at time.Time) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(`
        UPDATE orders SET estimated_ready_at = $2, updated_at = $3
        WHERE id = $1
        RETURNING `+selectOrderColumns,
		id, at, time.Now().UTC().Format(time.RFC3339)))
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

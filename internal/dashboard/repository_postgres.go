package dashboard

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Summary() (Summary, error)
	TopItems(limit int) ([]TopItem, error)
}

type PostgresRepository struct {
	db *sql.DB
}

const (
	ordersByStatusQuery = `SELECT status, COUNT(*) FROM orders GROUP BY status`

	ordersTodayQuery = `SELECT COUNT(*) FROM orders WHERE created_at::timestamptz >= date_trunc('day', now())`

	revenueQuery = `SELECT COALESCE(SUM(total), 0)::text FROM orders WHERE status = 'completed'`

	userCountQuery = `SELECT COUNT(*) FROM users`

	topItemsQuery = `
		SELECT ol.menu_item_id, COALESCE(m.name, 'removed item'), SUM(ol.quantity), SUM(ol.unit_price * ol.quantity)::text
		FROM order_lines ol
		LEFT JOIN menu_items m ON m.id = ol.menu_item_id
		JOIN orders o ON o.id = ol.order_id
		WHERE o.status <> 'cancelled'
		GROUP BY ol.menu_item_id, m.name
		ORDER BY SUM(ol.quantity) DESC
		LIMIT $1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Summary() (Summary, error) {
	s := Summary{OrdersByStatus: make(map[string]int), Revenue: decimal.Zero}

	rows, err := r.db.Query(ordersByStatusQuery)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, err
		}
		s.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}

	if err := r.db.QueryRow(ordersTodayQuery).Scan(&s.OrdersToday); err != nil {
		return Summary{}, err
	}

	var revenue string
	if err := r.db.QueryRow(revenueQuery).Scan(&revenue); err != nil {
		return Summary{}, err
	}
	if err := s.Revenue.Scan(revenue); err != nil {
		return Summary{}, err
	}

	if err := r.db.QueryRow(userCountQuery).Scan(&s.UserCount); err != nil {
		return Summary{}, err
	}

	return s, nil
}

func (r *PostgresRepository) TopItems(limit int) ([]TopItem, error) {
	rows, err := r.db.Query(topItemsQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TopItem, 0)
	for rows.Next() {
		var (
			item    TopItem
			revenue string
		)
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.Quantity, &revenue); err != nil {
			return nil, err
		}
		if err := item.Revenue.Scan(revenue); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

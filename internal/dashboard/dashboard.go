package dashboard

import "github.com/shopspring/decimal"

// Summary is the back-office overview: live order counts, revenue from
// completed orders and the current user base.
type Summary struct {
	OrdersByStatus map[string]int  `json:"ordersByStatus"`
	OrdersToday    int             `json:"ordersToday"`
	Revenue        decimal.Decimal `json:"revenue"`
	UserCount      int             `json:"userCount"`
}

// TopItem is one row of the best-sellers table, aggregated from order lines.
type TopItem struct {
	MenuItemID int             `json:"menuItemId"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
}

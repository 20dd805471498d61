package featured

import "github.com/shopspring/decimal"

// Item is a menu item surfaced on the storefront's featured rail, ordered by
// its promotion score.
type Item struct {
	MenuItemID int             `json:"menuItemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   *string         `json:"imageUrl,omitempty"`
	Score      *int            `json:"score,omitempty"`
}

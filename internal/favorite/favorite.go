package favorite

import "github.com/shopspring/decimal"

// Item is a favorited menu item as shown on the profile page.
type Item struct {
	MenuItemID int             `json:"menuItemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   *string         `json:"imageUrl,omitempty"`
	Available  bool            `json:"available"`
}

package menu

import "github.com/shopspring/decimal"

// Item represents a dish on the menu and maps to the `menu_items` table.
// Prices are NUMERIC(10,2) in the database; orders snapshot the price at
// purchase time, so editing an item never rewrites history.
type Item struct {
	ID          int             `json:"menuItemId"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *int            `json:"categoryId,omitempty"`
	Available   bool            `json:"available"`
	Image       *string         `json:"image,omitempty"`
	Variants    []Variant       `json:"variants,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// Variant is a mutually exclusive customization of an item that carries its
// own surcharge, e.g. an injera base upgraded to black teff.
type Variant struct {
	ID        int             `json:"variantId"`
	ItemID    int             `json:"menuItemId"`
	Name      string          `json:"name"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

package cart

import "github.com/shopspring/decimal"

// Line is one pending cart entry. Identity is (owner, menu item, variant):
// adding the same combination again increments quantity instead of inserting
// a second row. UnitPrice is snapshotted when the line is first written and
// never re-read from the live catalog.
type Line struct {
	ID           int             `json:"lineId"`
	OwnerKey     string          `json:"-"`
	MenuItemID   int             `json:"menuItemId"`
	ItemName     string          `json:"itemName,omitempty"`
	Variant      *string         `json:"variant,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Instructions *string         `json:"instructions,omitempty"`
	CreatedAt    string          `json:"createdAt,omitempty"`
	UpdatedAt    string          `json:"updatedAt,omitempty"`
}

// variantKey maps the optional variant label onto the identity key stored in
// the database. A missing variant and a legitimately empty-string variant
// must not collide, so the label is prefixed.
func variantKey(variant *string) string {
	if variant == nil {
		return ""
	}
	return "v:" + *variant
}

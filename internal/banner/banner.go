package banner

// Banner is a storefront promo slot.
type Banner struct {
	ID       int     `json:"bannerId"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Link     *string `json:"link,omitempty"`
	Alt      *string `json:"alt,omitempty"`
}

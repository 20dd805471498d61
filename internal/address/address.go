package address

// Address is a delivery address owned by a user. Label is the short display
// name ("Home", "Office"); Details holds the full street description.
type Address struct {
	ID        int    `json:"addressId"`
	UserID    int    `json:"userId"`
	Label     string `json:"label"`
	Details   string `json:"details"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

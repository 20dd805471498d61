package location

// Location is a restaurant branch shown on the contact page.
type Location struct {
	ID      int     `json:"locationId"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   *string `json:"phone,omitempty"`
	Hours   *string `json:"hours,omitempty"`
}

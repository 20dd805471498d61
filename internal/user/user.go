package user

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID            int    `json:"userId"`
	Email         string `json:"email"`
	Password      string `json:"password,omitempty"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
	MainAddressID *int   `json:"mainAddressId,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

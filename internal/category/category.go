package category

// Category groups menu items on the storefront. SortOrder controls display
// position; higher values render first.
type Category struct {
	ID          int     `json:"categoryId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	SortOrder   int     `json:"sortOrder"`
}

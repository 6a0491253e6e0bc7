package request

// ProductQuery filters the product listing
type ProductQuery struct {
	CategoryID string `form:"category_id"`
	Search     string `form:"search"`
}

// ProductRequest creates or replaces a product
type ProductRequest struct {
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Stock      int    `json:"stock"`
	CategoryID string `json:"category_id"`
	Photo      string `json:"photo"`
}

// CategoryRequest creates or replaces a category
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UserRequest creates or edits a user account. Password is optional on edit.
type UserRequest struct {
	Name     string `json:"name"`
	Rut      string `json:"rut"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

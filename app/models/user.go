package models

// User is an entry of users.json.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"` // bcrypt hash
}

// Public returns a copy safe to send to clients.
func (u User) Public() User {
	u.Password = ""
	return u
}

// Roles allowed to manage orders and the menu.
const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
)

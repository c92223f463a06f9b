package user

// User is an account in the store. Password holds the bcrypt hash and is
// blanked by sanitize before any response leaves a handler.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	IsAdmin   bool   `json:"isAdmin"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Biography string `json:"biography,omitempty"`
	Image     string `json:"image,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Sanitize returns a copy safe to serialize.
func Sanitize(u User) User {
	u.Password = ""
	return u
}
